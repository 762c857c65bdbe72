package fiscal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// Catalog é a lista imutável de templates de obrigação fiscal. Carregado uma
// única vez na inicialização do processo; configuração somente-leitura, sem
// ciclo de vida além da carga inicial.
type Catalog struct {
	obligations []entity.Obligation
}

// NewCatalog cria o catálogo copiando a lista recebida.
func NewCatalog(obs []entity.Obligation) *Catalog {
	cp := make([]entity.Obligation, len(obs))
	copy(cp, obs)
	return &Catalog{obligations: cp}
}

// All devolve uma cópia de todos os templates.
func (c *Catalog) All() []entity.Obligation {
	cp := make([]entity.Obligation, len(c.obligations))
	copy(cp, c.obligations)
	return cp
}

// ForRegime devolve os templates ativos aplicáveis ao regime dado.
func (c *Catalog) ForRegime(regime string) []entity.Obligation {
	var out []entity.Obligation
	for _, o := range c.obligations {
		if o.Active && o.AppliesTo(regime) {
			out = append(out, o)
		}
	}
	return out
}

// Len número de templates carregados.
func (c *Catalog) Len() int { return len(c.obligations) }

func estimated(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

var allRegimes = []string{entity.RegimeSimples, entity.RegimePresumido, entity.RegimeReal, entity.RegimePF}
var pjRegimes = []string{entity.RegimeSimples, entity.RegimePresumido, entity.RegimeReal}

// DefaultCatalog devolve o catálogo padrão de obrigações do produtor rural.
// Valores de dia/mês seguem os prazos usuais das obrigações federais e
// estaduais; o ajuste fino por UF fica nas notas.
func DefaultCatalog() *Catalog {
	carFinal := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	return NewCatalog([]entity.Obligation{
		{
			Name:        "DCTFWeb",
			Description: "Declaração de débitos e créditos tributários federais previdenciários",
			Recurrence:  entity.RecurrenceMonthly,
			DueDay:      25,
			Active:      true,
			Mandatory:   true,
			Regimes:     pjRegimes,
		},
		{
			Name:        "Funrural (GPS)",
			Description: "Contribuição previdenciária sobre a comercialização da produção rural",
			Recurrence:  entity.RecurrenceMonthly,
			DueDay:      20,
			Active:      true,
			Mandatory:   true,
			Regimes:     allRegimes,
		},
		{
			Name:        "ICMS — apuração mensal",
			Description: "Recolhimento do ICMS apurado sobre as saídas do mês anterior",
			Recurrence:  entity.RecurrenceMonthly,
			DueDay:      10,
			Active:      true,
			Mandatory:   true,
			Regimes:     []string{entity.RegimePresumido, entity.RegimeReal},
			Notes:       "dia exato varia por UF e CNAE; 10 é o prazo de referência",
		},
		{
			Name:        "EFD-Reinf",
			Description: "Escrituração fiscal digital de retenções e outras informações fiscais",
			Recurrence:  entity.RecurrenceMonthly,
			DueDay:      15,
			Active:      true,
			Mandatory:   true,
			Regimes:     pjRegimes,
		},
		{
			Name:           "Simples Nacional (DAS)",
			Description:    "Documento de arrecadação do Simples Nacional",
			Recurrence:     entity.RecurrenceMonthly,
			DueDay:         20,
			Active:         true,
			Mandatory:      true,
			Regimes:        []string{entity.RegimeSimples},
			EstimatedValue: estimated("380.00"),
		},
		{
			Name:        "IRPJ/CSLL — apuração trimestral",
			Description: "Imposto de renda e contribuição social sobre o lucro, apuração trimestral",
			Recurrence:  entity.RecurrenceQuarterly,
			DueDay:      31,
			Active:      true,
			Mandatory:   true,
			Regimes:     []string{entity.RegimePresumido, entity.RegimeReal},
			Notes:       "vencimento no último dia útil do mês seguinte ao trimestre encerrado",
		},
		{
			Name:        "DITR",
			Description: "Declaração do imposto sobre a propriedade territorial rural",
			Recurrence:  entity.RecurrenceAnnual,
			DueMonth:    time.September,
			DueDay:      30,
			Active:      true,
			Mandatory:   true,
			Regimes:     allRegimes,
		},
		{
			Name:        "IRPF — atividade rural",
			Description: "Declaração anual de ajuste com o demonstrativo da atividade rural",
			Recurrence:  entity.RecurrenceAnnual,
			DueMonth:    time.May,
			DueDay:      31,
			Active:      true,
			Mandatory:   true,
			Regimes:     []string{entity.RegimePF},
		},
		{
			Name:        "LCDPR",
			Description: "Livro caixa digital do produtor rural",
			Recurrence:  entity.RecurrenceAnnual,
			DueMonth:    time.May,
			DueDay:      31,
			Active:      true,
			Mandatory:   false,
			Regimes:     []string{entity.RegimePF},
			Notes:       "obrigatório acima do limite de receita bruta anual",
		},
		{
			Name:        "CAR — regularização cadastral",
			Description: "Prazo final de retificação do cadastro ambiental rural",
			Recurrence:  entity.RecurrenceOnce,
			FixedDate:   &carFinal,
			Active:      true,
			Mandatory:   false,
			Regimes:     allRegimes,
		},
	})
}
