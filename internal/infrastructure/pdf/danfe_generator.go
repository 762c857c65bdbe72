// Package pdf implementa a representação gráfica simplificada (DANFE) do
// documento fiscal do produtor rural.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emitente + CPF/CNPJ  │  Nº documento + Data        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATÁRIO: Nome + CPF/CNPJ + UF                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtd | Descrição | NCM | V.Unit | ICMS% | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: Valor total / ICMS destacado                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: Chave de acesso + QR + observação legal            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appdocument "github.com/agrofiscal/agrofiscal-api/internal/application/document"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

var _ appdocument.PDFGenerator = (*MarotoDANFEGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoDANFEGenerator implementa document.PDFGenerator usando Maroto v2.
type MarotoDANFEGenerator struct{}

// NewMarotoDANFEGenerator constrói o gerador.
func NewMarotoDANFEGenerator() *MarotoDANFEGenerator { return &MarotoDANFEGenerator{} }

// GenerateDANFE gera o PDF e devolve seus bytes.
func (g *MarotoDANFEGenerator) GenerateDANFE(
	_ context.Context,
	doc *entity.FiscalDocument,
	producer *entity.Producer,
	items []entity.DocumentItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("DANFE Simplificado", true).
		WithAuthor(producer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, producer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinatarioRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc, items))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range accessKeyFooterRows(doc) {
		m.AddRows(r)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return generated.GetBytes(), nil
}

// headerRow: emitente + CPF/CNPJ (esq) e número + data de emissão (dir).
func headerRow(doc *entity.FiscalDocument, producer *entity.Producer) core.Row {
	numero := fmt.Sprintf("Nº %09d — Série %s", doc.Number, doc.Series)
	data := doc.IssueDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(producer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CPF/CNPJ: "+producer.TaxID+"   |   UF: "+producer.UF, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA FISCAL DE PRODUTOR RURAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emissão: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// destinatarioRow: dados da contraparte da operação.
func destinatarioRow(doc *entity.FiscalDocument) core.Row {
	titulo := "DESTINATÁRIO"
	if doc.Kind == entity.DraftKindEntrada {
		titulo = "REMETENTE"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.CounterpartyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   UF: %s   |   CFOP: %s   |   %s",
				doc.CounterpartyTaxID, doc.DestinationUF,
				nonEmpty(doc.OperationCode, "—"), nonEmpty(doc.Nature, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Descrição da mercadoria", 4, align.Left),
		h("NCM", 2, align.Center),
		h("V. Unit.", 2, align.Right),
		h("ICMS%", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: uma linha por item do documento.
func tableItemRows(items []entity.DocumentItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	cem := decimal.NewFromInt(100)
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(it.NCM, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.ICMSRate.Mul(cem).StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+it.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloco de totais alinhado à direita.
func totalsRow(doc *entity.FiscalDocument, items []entity.DocumentItem) core.Row {
	icms := decimal.Zero
	for _, it := range items {
		icms = icms.Add(it.ICMSValue)
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("ICMS destacado:"),
			grandLabel("VALOR TOTAL:"),
		),
		col.New(4).Add(
			value("R$ "+icms.StringFixed(2)),
			grandValue("R$ "+doc.TotalValue.StringFixed(2)),
		),
	)
}

// accessKeyFooterRows: chave de acesso + QR + observação legal.
func accessKeyFooterRows(doc *entity.FiscalDocument) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CHAVE DE ACESSO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(groupKey(doc.AccessKey), props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 2,
			}),
		)),
		row.New(3),
		row.New(40).Add(
			col.New(4).Add(code.NewQr(doc.AccessKey, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Consulte a autenticidade pela\nchave de acesso no portal da SEFAZ.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("DANFE SIMPLIFICADO\nSem valor fiscal isolado", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 20,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Representação simplificada do documento fiscal eletrônico. "+
					"Conserve este documento junto ao livro caixa da atividade rural.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
	return rows
}

// groupKey formata a chave em grupos de 4 dígitos para leitura.
func groupKey(key string) string {
	var out []byte
	for i := 0; i < len(key); i++ {
		if i > 0 && i%4 == 0 {
			out = append(out, ' ')
		}
		out = append(out, key[i])
	}
	return string(out)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
