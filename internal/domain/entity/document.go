package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatusValidated único status de um documento oficial: criado já
// validado e imutável a partir daí.
const DocumentStatusValidated = "validada"

// Modelos de documento fiscal.
const (
	DocumentModelNFe = "55" // Nota Fiscal Eletrônica
)

// FiscalDocument é o registro oficial imutável criado uma única vez por
// rascunho (ou diretamente, na emissão sem workflow). Nunca atualizado por
// este subsistema após a criação.
type FiscalDocument struct {
	ID         string
	ProducerID string
	// AccessKey chave de acesso: 44 dígitos de dados + 1 dígito verificador.
	AccessKey string
	Number    int64  // número sequencial do documento
	Series    string // série (3 dígitos)
	Model     string // modelo (ex: "55")
	Kind      DraftKind

	OperationCode     string
	Nature            string
	CounterpartyName  string
	CounterpartyTaxID string
	DestinationUF     string
	IssueDate         time.Time
	Notes             string

	TotalValue decimal.Decimal
	Status     string // sempre "validada"

	// DraftID rascunho de origem; vazio na emissão direta.
	DraftID   string
	CreatedAt time.Time
}

// DocumentItem linha de item copiada do rascunho no momento da finalização.
type DocumentItem struct {
	ID          string
	DocumentID  string
	ProductCode string
	Description string
	NCM         string
	CST         string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	ICMSRate    decimal.Decimal
	ICMSValue   decimal.Decimal
}
