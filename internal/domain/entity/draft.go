package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftStatus status fechado do ciclo de vida do rascunho.
type DraftStatus string

const (
	DraftStatusDraft         DraftStatus = "rascunho"            // editável pelo produtor
	DraftStatusSubmitted     DraftStatus = "enviado"             // aguardando revisão do contador
	DraftStatusApproved      DraftStatus = "aprovado"            // liberado para finalização
	DraftStatusNeedsRevision DraftStatus = "revisao_solicitada"  // devolvido com feedback
	DraftStatusRejected      DraftStatus = "rejeitado"           // terminal; sem transição de reabertura
	DraftStatusFinalized     DraftStatus = "finalizado"          // terminal; documento oficial emitido
)

// DraftKind tipo de operação do documento.
type DraftKind string

const (
	DraftKindEntrada DraftKind = "entrada"
	DraftKindSaida   DraftKind = "saida"
)

// Draft é o rascunho de documento fiscal do produtor. Editável somente
// enquanto Status ∈ {rascunho, revisao_solicitada}; após finalizado, tanto o
// rascunho quanto o documento oficial são histórico imutável. O rascunho guarda
// apenas a referência fraca FinalDocumentID para o documento oficial, nunca o
// contrário.
type Draft struct {
	ID         string
	ProducerID string
	ContadorID string // revisor; preenchido na primeira revisão
	Kind       DraftKind

	OperationCode     string // CFOP
	Nature            string // natureza da operação
	CounterpartyName  string
	CounterpartyTaxID string // CPF/CNPJ da contraparte
	DestinationUF     string
	IssueDate         time.Time
	Notes             string

	// TotalValue derivado: sempre igual à soma dos LineTotal dos itens.
	TotalValue decimal.Decimal
	// TemporaryKey identificador provisório gerado na criação; nunca
	// reaproveitado como chave de acesso final.
	TemporaryKey string

	Status DraftStatus

	// Campos preenchidos apenas por transições de revisão; limpos quando o
	// produtor edita um rascunho devolvido.
	ReviewFeedback       string
	SuggestedCorrections map[string]string
	CorrectedPayload     map[string]string

	// FinalDocumentID preenchido exatamente uma vez, na finalização.
	FinalDocumentID string

	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Editable informa se o rascunho aceita substituição de itens/cabeçalho.
func (d *Draft) Editable() bool {
	return d.Status == DraftStatusDraft || d.Status == DraftStatusNeedsRevision
}

// ClearReview limpa os campos de revisão (usado quando o produtor edita um
// rascunho devolvido, voltando-o para o status rascunho).
func (d *Draft) ClearReview() {
	d.ReviewFeedback = ""
	d.SuggestedCorrections = nil
	d.CorrectedPayload = nil
}

// DraftItem linha de item do rascunho, com desdobramento de ICMS por linha.
type DraftItem struct {
	ID          string
	DraftID     string
	ProductCode string
	Description string
	NCM         string // classificação fiscal da mercadoria
	CST         string // código de situação tributária
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal // Quantity × UnitPrice
	ICMSRate    decimal.Decimal // fração (0.12 = 12%)
	ICMSValue   decimal.Decimal // LineTotal × ICMSRate
}

// SumItems soma os LineTotal de um conjunto de itens.
func SumItems(items []DraftItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}
