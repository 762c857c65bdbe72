package xml

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

func fixtureDocument() (*entity.FiscalDocument, *entity.Producer, []entity.DocumentItem) {
	doc := &entity.FiscalDocument{
		ID:                "doc-1",
		ProducerID:        "prod-1",
		AccessKey:         "510825042520110001105500100000004211234567893",
		Number:            421,
		Series:            "001",
		Model:             entity.DocumentModelNFe,
		Kind:              entity.DraftKindSaida,
		OperationCode:     "5102",
		Nature:            "Venda de producao propria",
		CounterpartyName:  "Cooperativa Agro Norte",
		CounterpartyTaxID: "11222333000181",
		DestinationUF:     "GO",
		IssueDate:         time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC),
		TotalValue:        decimal.RequireFromString("56.00"),
		Status:            entity.DocumentStatusValidated,
	}
	producer := &entity.Producer{
		ID:                "prod-1",
		Name:              "Fazenda Boa Vista LTDA",
		TaxID:             "04252011000110",
		StateRegistration: "133366551",
		UF:                "MT",
		UFCode:            "51",
		Municipality:      "Sorriso",
	}
	items := []entity.DocumentItem{
		{
			Description: "Soja em graos",
			NCM:         "12019000",
			Unit:        "SC",
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.RequireFromString("5.00"),
			LineTotal:   decimal.RequireFromString("50.00"),
			ICMSRate:    decimal.RequireFromString("0.12"),
			ICMSValue:   decimal.RequireFromString("6.00"),
		},
		{
			Description: "Milho",
			Unit:        "SC",
			Quantity:    decimal.NewFromInt(3),
			UnitPrice:   decimal.RequireFromString("2.00"),
			LineTotal:   decimal.RequireFromString("6.00"),
			ICMSRate:    decimal.Zero,
			ICMSValue:   decimal.Zero,
		},
	}
	return doc, producer, items
}

// O XML gerado deve parsear de volta e expor os campos principais no leiaute
// infNFe: chave no Id, emitente, destinatário, um det por item e totais.
func TestBuildNFeXML_LeiauteCompleto(t *testing.T) {
	doc, producer, items := fixtureDocument()

	out, err := NewNFeBuilder().BuildNFeXML(doc, producer, items)
	require.NoError(t, err)

	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromBytes(out))

	inf := tree.FindElement("//NFe/infNFe")
	require.NotNil(t, inf, "infNFe deve existir")
	assert.Equal(t, "NFe"+doc.AccessKey, inf.SelectAttrValue("Id", ""))
	assert.Equal(t, "4.00", inf.SelectAttrValue("versao", ""))

	assert.Equal(t, "51", inf.FindElement("ide/cUF").Text())
	assert.Equal(t, "55", inf.FindElement("ide/mod").Text())
	assert.Equal(t, "421", inf.FindElement("ide/nNF").Text())
	assert.Equal(t, "1", inf.FindElement("ide/tpNF").Text(), "saída deve gerar tpNF=1")

	assert.Equal(t, producer.TaxID, inf.FindElement("emit/CNPJ").Text())
	assert.Equal(t, producer.StateRegistration, inf.FindElement("emit/IE").Text())
	assert.Equal(t, "Sorriso", inf.FindElement("emit/enderEmit/xMun").Text())

	assert.Equal(t, "Cooperativa Agro Norte", inf.FindElement("dest/xNome").Text())
	assert.Equal(t, "GO", inf.FindElement("dest/enderDest/UF").Text())

	dets := inf.FindElements("det")
	require.Len(t, dets, 2)
	assert.Equal(t, "1", dets[0].SelectAttrValue("nItem", ""))
	assert.Equal(t, "Soja em graos", dets[0].FindElement("prod/xProd").Text())
	assert.Equal(t, "12019000", dets[0].FindElement("prod/NCM").Text())
	assert.Equal(t, "5102", dets[0].FindElement("prod/CFOP").Text())
	assert.Equal(t, "12.00", dets[0].FindElement("imposto/ICMS/pICMS").Text(),
		"alíquota fracionária vira percentual no XML")
	assert.Equal(t, "6.00", dets[0].FindElement("imposto/ICMS/vICMS").Text())
	// Segundo item sem NCM: elemento omitido
	assert.Nil(t, dets[1].FindElement("prod/NCM"))

	assert.Equal(t, "6.00", inf.FindElement("total/ICMSTot/vICMS").Text())
	assert.Equal(t, "56.00", inf.FindElement("total/ICMSTot/vNF").Text())
}

func TestBuildNFeXML_EntradaGeraTpNFZero(t *testing.T) {
	doc, producer, items := fixtureDocument()
	doc.Kind = entity.DraftKindEntrada

	out, err := NewNFeBuilder().BuildNFeXML(doc, producer, items)
	require.NoError(t, err)

	tree := etree.NewDocument()
	require.NoError(t, tree.ReadFromBytes(out))
	assert.Equal(t, "0", tree.FindElement("//infNFe/ide/tpNF").Text())
}

func TestBuildNFeXML_SemDocumentoRetornaErro(t *testing.T) {
	_, producer, items := fixtureDocument()

	_, err := NewNFeBuilder().BuildNFeXML(nil, producer, items)
	assert.Error(t, err)
}
