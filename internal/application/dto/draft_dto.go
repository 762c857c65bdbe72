package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// DraftItemRequest linha de item enviada na criação/edição do rascunho.
type DraftItemRequest struct {
	ProductCode string          `json:"codigo_produto"`
	Description string          `json:"descricao"`
	NCM         string          `json:"ncm"`
	CST         string          `json:"cst"`
	Unit        string          `json:"unidade"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"valor_unitario"`
	ICMSRate    decimal.Decimal `json:"aliquota_icms"`
}

// DraftHeaderRequest campos de cabeçalho do rascunho.
type DraftHeaderRequest struct {
	Kind              string `json:"tipo"` // entrada | saida
	OperationCode     string `json:"cfop"`
	Nature            string `json:"natureza_operacao"`
	CounterpartyName  string `json:"contraparte_nome"`
	CounterpartyTaxID string `json:"contraparte_documento"`
	DestinationUF     string `json:"uf_destino"`
	IssueDate         string `json:"data_emissao"` // YYYY-MM-DD
	Notes             string `json:"observacoes"`
}

// CreateDraftRequest criação de rascunho com cabeçalho e itens.
type CreateDraftRequest struct {
	DraftHeaderRequest
	Items []DraftItemRequest `json:"itens"`
}

// UpdateDraftRequest substituição de cabeçalho e/ou itens de um rascunho
// editável. Header nil mantém o cabeçalho atual; Items nil mantém os itens.
type UpdateDraftRequest struct {
	Header *DraftHeaderRequest `json:"cabecalho"`
	Items  []DraftItemRequest  `json:"itens"`
}

// ReviewDraftRequest decisão do contador sobre um rascunho enviado.
type ReviewDraftRequest struct {
	Decision         string            `json:"decisao"` // aprovado | revisao_solicitada | rejeitado
	Feedback         string            `json:"feedback"`
	Corrections      map[string]string `json:"correcoes"`
	CorrectedPayload map[string]string `json:"payload_corrigido"`
}

// DraftItemResponse linha de item na resposta.
type DraftItemResponse struct {
	ID          string          `json:"id"`
	ProductCode string          `json:"codigo_produto"`
	Description string          `json:"descricao"`
	NCM         string          `json:"ncm"`
	CST         string          `json:"cst"`
	Unit        string          `json:"unidade"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"valor_unitario"`
	LineTotal   decimal.Decimal `json:"valor_total"`
	ICMSRate    decimal.Decimal `json:"aliquota_icms"`
	ICMSValue   decimal.Decimal `json:"valor_icms"`
}

// DraftResponse rascunho completo.
type DraftResponse struct {
	ID                   string              `json:"id"`
	ProducerID           string              `json:"produtor_id"`
	ContadorID           string              `json:"contador_id,omitempty"`
	Kind                 string              `json:"tipo"`
	OperationCode        string              `json:"cfop"`
	Nature               string              `json:"natureza_operacao"`
	CounterpartyName     string              `json:"contraparte_nome"`
	CounterpartyTaxID    string              `json:"contraparte_documento"`
	DestinationUF        string              `json:"uf_destino"`
	IssueDate            string              `json:"data_emissao"`
	Notes                string              `json:"observacoes,omitempty"`
	TotalValue           decimal.Decimal     `json:"valor_total"`
	TemporaryKey         string              `json:"chave_provisoria"`
	Status               string              `json:"status"`
	ReviewFeedback       string              `json:"feedback,omitempty"`
	SuggestedCorrections map[string]string   `json:"correcoes,omitempty"`
	CorrectedPayload     map[string]string   `json:"payload_corrigido,omitempty"`
	FinalDocumentID      string              `json:"documento_final_id,omitempty"`
	SubmittedAt          *time.Time          `json:"enviado_em,omitempty"`
	ReviewedAt           *time.Time          `json:"revisado_em,omitempty"`
	CreatedAt            time.Time           `json:"criado_em"`
	Items                []DraftItemResponse `json:"itens,omitempty"`
}

// FinalizeDraftResponse resultado da finalização: rascunho finalizado mais o
// documento oficial emitido.
type FinalizeDraftResponse struct {
	Draft    DraftResponse    `json:"rascunho"`
	Document DocumentResponse `json:"documento"`
}

// ToDraftResponse converte o rascunho de domínio (e itens, opcional) para o DTO.
func ToDraftResponse(d *entity.Draft, items []entity.DraftItem) DraftResponse {
	resp := DraftResponse{
		ID:                   d.ID,
		ProducerID:           d.ProducerID,
		ContadorID:           d.ContadorID,
		Kind:                 string(d.Kind),
		OperationCode:        d.OperationCode,
		Nature:               d.Nature,
		CounterpartyName:     d.CounterpartyName,
		CounterpartyTaxID:    d.CounterpartyTaxID,
		DestinationUF:        d.DestinationUF,
		IssueDate:            d.IssueDate.Format("2006-01-02"),
		Notes:                d.Notes,
		TotalValue:           d.TotalValue,
		TemporaryKey:         d.TemporaryKey,
		Status:               string(d.Status),
		ReviewFeedback:       d.ReviewFeedback,
		SuggestedCorrections: d.SuggestedCorrections,
		CorrectedPayload:     d.CorrectedPayload,
		FinalDocumentID:      d.FinalDocumentID,
		SubmittedAt:          d.SubmittedAt,
		ReviewedAt:           d.ReviewedAt,
		CreatedAt:            d.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, DraftItemResponse{
			ID:          it.ID,
			ProductCode: it.ProductCode,
			Description: it.Description,
			NCM:         it.NCM,
			CST:         it.CST,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			ICMSRate:    it.ICMSRate,
			ICMSValue:   it.ICMSValue,
		})
	}
	return resp
}
