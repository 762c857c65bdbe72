// Package xml monta o XML do documento fiscal no leiaute simplificado da
// NF-e (infNFe com emitente, destinatário, itens e totais). Sem assinatura
// digital: a transmissão à SEFAZ fica fora deste serviço.
package xml

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appdocument "github.com/agrofiscal/agrofiscal-api/internal/application/document"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// Namespace do leiaute da NF-e.
const nsNFe = "http://www.portalfiscal.inf.br/nfe"

var _ appdocument.XMLBuilder = (*NFeBuilder)(nil)

// NFeBuilder constrói o XML do documento com etree.
type NFeBuilder struct{}

// NewNFeBuilder cria o builder.
func NewNFeBuilder() *NFeBuilder { return &NFeBuilder{} }

// BuildNFeXML gera o []byte do documento.
func (b *NFeBuilder) BuildNFeXML(
	doc *entity.FiscalDocument,
	producer *entity.Producer,
	items []entity.DocumentItem,
) ([]byte, error) {
	if doc == nil || producer == nil {
		return nil, fmt.Errorf("xml: documento e emitente são obrigatórios")
	}

	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	nfe := tree.CreateElement("NFe")
	nfe.CreateAttr("xmlns", nsNFe)

	inf := nfe.CreateElement("infNFe")
	inf.CreateAttr("Id", "NFe"+doc.AccessKey)
	inf.CreateAttr("versao", "4.00")

	ide := inf.CreateElement("ide")
	ide.CreateElement("cUF").SetText(producer.UFCode)
	ide.CreateElement("natOp").SetText(doc.Nature)
	ide.CreateElement("mod").SetText(doc.Model)
	ide.CreateElement("serie").SetText(doc.Series)
	ide.CreateElement("nNF").SetText(fmt.Sprintf("%d", doc.Number))
	ide.CreateElement("dhEmi").SetText(doc.IssueDate.Format("2006-01-02T15:04:05-07:00"))
	tpNF := "1" // saída
	if doc.Kind == entity.DraftKindEntrada {
		tpNF = "0"
	}
	ide.CreateElement("tpNF").SetText(tpNF)

	emit := inf.CreateElement("emit")
	emit.CreateElement("CNPJ").SetText(producer.TaxID)
	emit.CreateElement("xNome").SetText(producer.Name)
	if producer.StateRegistration != "" {
		emit.CreateElement("IE").SetText(producer.StateRegistration)
	}
	endEmit := emit.CreateElement("enderEmit")
	if producer.Municipality != "" {
		endEmit.CreateElement("xMun").SetText(producer.Municipality)
	}
	endEmit.CreateElement("UF").SetText(producer.UF)

	dest := inf.CreateElement("dest")
	dest.CreateElement("CNPJ").SetText(doc.CounterpartyTaxID)
	dest.CreateElement("xNome").SetText(doc.CounterpartyName)
	dest.CreateElement("enderDest").CreateElement("UF").SetText(doc.DestinationUF)

	icmsTotal := decimal.Zero
	for i, it := range items {
		det := inf.CreateElement("det")
		det.CreateAttr("nItem", fmt.Sprintf("%d", i+1))

		prod := det.CreateElement("prod")
		if it.ProductCode != "" {
			prod.CreateElement("cProd").SetText(it.ProductCode)
		}
		prod.CreateElement("xProd").SetText(it.Description)
		if it.NCM != "" {
			prod.CreateElement("NCM").SetText(it.NCM)
		}
		if doc.OperationCode != "" {
			prod.CreateElement("CFOP").SetText(doc.OperationCode)
		}
		prod.CreateElement("uCom").SetText(it.Unit)
		prod.CreateElement("qCom").SetText(it.Quantity.String())
		prod.CreateElement("vUnCom").SetText(it.UnitPrice.StringFixed(2))
		prod.CreateElement("vProd").SetText(it.LineTotal.StringFixed(2))

		imposto := det.CreateElement("imposto").CreateElement("ICMS")
		if it.CST != "" {
			imposto.CreateElement("CST").SetText(it.CST)
		}
		imposto.CreateElement("pICMS").SetText(it.ICMSRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
		imposto.CreateElement("vICMS").SetText(it.ICMSValue.StringFixed(2))
		icmsTotal = icmsTotal.Add(it.ICMSValue)
	}

	total := inf.CreateElement("total").CreateElement("ICMSTot")
	total.CreateElement("vICMS").SetText(icmsTotal.StringFixed(2))
	total.CreateElement("vNF").SetText(doc.TotalValue.StringFixed(2))

	tree.Indent(2)
	out, err := tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar documento: %w", err)
	}
	return out, nil
}
