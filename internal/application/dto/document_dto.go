package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// CreateDocumentRequest emissão direta, sem passar pelo fluxo de revisão.
type CreateDocumentRequest struct {
	DraftHeaderRequest
	Items []DraftItemRequest `json:"itens"`
}

// DocumentItemResponse linha de item do documento oficial.
type DocumentItemResponse struct {
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

// DocumentResponse documento fiscal emitido.
type DocumentResponse struct {
	ID                string                 `json:"id"`
	ProducerID        string                 `json:"produtor_id"`
	DraftID           string                 `json:"rascunho_id,omitempty"`
	AccessKey         string                 `json:"chave_acesso"`
	Number            int64                  `json:"numero"`
	Series            string                 `json:"serie"`
	Model             string                 `json:"modelo"`
	Kind              string                 `json:"tipo"`
	OperationCode     string                 `json:"cfop"`
	Nature            string                 `json:"natureza_operacao"`
	CounterpartyName  string                 `json:"contraparte_nome"`
	CounterpartyTaxID string                 `json:"contraparte_documento"`
	DestinationUF     string                 `json:"uf_destino"`
	IssueDate         string                 `json:"data_emissao"`
	TotalValue        decimal.Decimal        `json:"valor_total"`
	Status            string                 `json:"status"`
	IssuedAt          time.Time              `json:"emitido_em"`
	Items             []DocumentItemResponse `json:"itens,omitempty"`
}

// ToDocumentResponse converte o documento de domínio (e itens, opcional).
func ToDocumentResponse(doc *entity.FiscalDocument, items []entity.DocumentItem) DocumentResponse {
	resp := DocumentResponse{
		ID:                doc.ID,
		ProducerID:        doc.ProducerID,
		DraftID:           doc.DraftID,
		AccessKey:         doc.AccessKey,
		Number:            doc.Number,
		Series:            doc.Series,
		Model:             doc.Model,
		Kind:              string(doc.Kind),
		OperationCode:     doc.OperationCode,
		Nature:            doc.Nature,
		CounterpartyName:  doc.CounterpartyName,
		CounterpartyTaxID: doc.CounterpartyTaxID,
		DestinationUF:     doc.DestinationUF,
		IssueDate:         doc.IssueDate.Format("2006-01-02"),
		TotalValue:        doc.TotalValue,
		Status:            doc.Status,
		IssuedAt:          doc.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, DocumentItemResponse{
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

// ExtractItemsRequest texto livre (nota manuscrita, conversa) para extração
// assistida de itens.
type ExtractItemsRequest struct {
	Text string `json:"texto"`
}

// ExtractedItem item sugerido pela extração assistida. Os valores voltam como
// string para o produtor conferir antes de virar item de rascunho.
type ExtractedItem struct {
	Description string `json:"descricao"`
	NCM         string `json:"ncm,omitempty"`
	Unit        string `json:"unidade"`
	Quantity    string `json:"quantidade"`
	UnitPrice   string `json:"valor_unitario"`
}

// ExtractItemsResponse resultado da extração.
type ExtractItemsResponse struct {
	Items []ExtractedItem `json:"itens"`
}
