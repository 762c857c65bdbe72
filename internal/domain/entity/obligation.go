package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceKind tipo fechado de recorrência de uma obrigação fiscal.
type RecurrenceKind string

const (
	RecurrenceMonthly   RecurrenceKind = "mensal"
	RecurrenceQuarterly RecurrenceKind = "trimestral"
	RecurrenceAnnual    RecurrenceKind = "anual"
	RecurrenceOnce      RecurrenceKind = "unica"
)

// Regimes tributários aplicáveis ao produtor rural.
const (
	RegimeSimples   = "simples"
	RegimePresumido = "lucro_presumido"
	RegimeReal      = "lucro_real"
	RegimePF        = "produtor_pf" // pessoa física (livro caixa / carnê-leão)
)

// Obligation é o template imutável de uma obrigação fiscal periódica
// (DCTFWeb, Funrural, DITR etc.). Carregado uma única vez na inicialização
// pelo catálogo; nunca mutado em runtime.
type Obligation struct {
	Name        string
	Description string
	Recurrence  RecurrenceKind
	DueDay      int        // dia do mês 1–31 (ajustado ao último dia em meses curtos)
	DueMonth    time.Month // apenas para Recurrence = anual
	FixedDate   *time.Time // apenas para Recurrence = unica
	Active      bool
	Mandatory   bool
	Regimes     []string // regimes aos quais a obrigação se aplica
	// EstimatedValue valor estimado da guia, quando conhecido (nil = sem estimativa).
	EstimatedValue *decimal.Decimal
	Notes          string
}

// AppliesTo informa se a obrigação se aplica ao regime tributário dado.
func (o Obligation) AppliesTo(regime string) bool {
	for _, r := range o.Regimes {
		if r == regime {
			return true
		}
	}
	return false
}
