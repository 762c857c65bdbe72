// Package fiscal: agenda de obrigações do produtor rural — catálogo de
// templates, expansão de recorrência em ocorrências datadas e derivação de
// lembretes. Funções puras, sem estado compartilhado: seguras para chamadas
// concorrentes; o resultado depende só dos argumentos (templates, janela, "agora").
package fiscal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// OccurrenceStatus situação da ocorrência relativa ao instante de referência.
type OccurrenceStatus string

const (
	OccurrenceOverdue OccurrenceStatus = "vencida"
	OccurrenceUrgent  OccurrenceStatus = "urgente" // vence em até 7 dias
	OccurrenceNormal  OccurrenceStatus = "normal"
)

// urgentThresholdDays prazo em dias abaixo do qual a ocorrência é urgente.
const urgentThresholdDays = 7

// maxExpandMonths teto de iteração da expansão (10 anos). Protege contra
// templates malformados; janelas maiores são truncadas, nunca loop infinito.
const maxExpandMonths = 120

// Occurrence é uma instância concreta de vencimento derivada de um template.
// Efêmera: calculada sob demanda para uma janela, nunca persistida; recalcular
// com os mesmos argumentos produz o mesmo conjunto.
type Occurrence struct {
	Obligation    entity.Obligation
	DueDate       time.Time // data-calendário do vencimento (meia-noite)
	DaysRemaining int       // relativo ao instante de referência aplicado
	Status        OccurrenceStatus
}

// Expand produz todas as ocorrências do template dentro de [start, end],
// ordenadas por vencimento crescente. Determinística: mesma entrada, mesma
// saída. Template com recorrência desconhecida retorna ErrUnknownRecurrence
// (o chamador registra e segue com os demais templates, nunca aborta o lote).
func Expand(tpl entity.Obligation, start, end time.Time) ([]Occurrence, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: janela invertida (%s > %s)", domain.ErrInvalidInput,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	start = dateOnly(start)
	end = dateOnly(end)

	switch tpl.Recurrence {
	case entity.RecurrenceMonthly:
		return expandMonthly(tpl, start, end, 1), nil
	case entity.RecurrenceQuarterly:
		// meses cujo índice 0-based é múltiplo de 3 (jan, abr, jul, out);
		// âncora fora da grade é ajustada para frente pelo próprio filtro.
		return expandMonthly(tpl, start, end, 3), nil
	case entity.RecurrenceAnnual:
		return expandAnnual(tpl, start, end), nil
	case entity.RecurrenceOnce:
		return expandOnce(tpl, start, end)
	default:
		return nil, fmt.Errorf("%w: %q (obrigação %q)", domain.ErrUnknownRecurrence, tpl.Recurrence, tpl.Name)
	}
}

// expandMonthly percorre os meses que tocam a janela. step=1 para mensal;
// step=3 restringe aos meses de abertura de trimestre.
func expandMonthly(tpl entity.Obligation, start, end time.Time, step int) []Occurrence {
	var out []Occurrence
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	for i := 0; i < maxExpandMonths; i++ {
		month := cursor.AddDate(0, i, 0)
		if step == 3 && int(month.Month()-1)%3 != 0 {
			continue
		}
		due := clampedDate(month.Year(), month.Month(), tpl.DueDay, start.Location())
		if due.After(end) {
			break
		}
		if due.Before(start) {
			// vencimento do primeiro mês já passou da abertura da janela
			continue
		}
		out = append(out, Occurrence{Obligation: tpl, DueDate: due})
	}
	return out
}

func expandAnnual(tpl entity.Obligation, start, end time.Time) []Occurrence {
	var out []Occurrence
	month := tpl.DueMonth
	if month < time.January || month > time.December {
		month = time.January
	}
	for y := 0; y < maxExpandMonths/12; y++ {
		due := clampedDate(start.Year()+y, month, tpl.DueDay, start.Location())
		if due.After(end) {
			break
		}
		if due.Before(start) {
			// a data deste ano precede a janela; usa o ano seguinte
			continue
		}
		out = append(out, Occurrence{Obligation: tpl, DueDate: due})
	}
	return out
}

// expandOnce exige FixedDate: recorrência única sem data fixa é template
// inválido, não ocorrência inferida.
func expandOnce(tpl entity.Obligation, start, end time.Time) ([]Occurrence, error) {
	if tpl.FixedDate == nil {
		return nil, fmt.Errorf("%w: obrigação única %q sem data fixa", domain.ErrInvalidInput, tpl.Name)
	}
	due := dateOnly(*tpl.FixedDate)
	if due.Before(start) || due.After(end) {
		return nil, nil
	}
	return []Occurrence{{Obligation: tpl, DueDate: due}}, nil
}

// ApplyReference preenche DaysRemaining e Status relativos a ref:
// dias restantes = teto((vencimento − ref) / 24h); ≤0 vencida, ≤7 urgente.
func ApplyReference(occs []Occurrence, ref time.Time) []Occurrence {
	for i := range occs {
		days := int(math.Ceil(occs[i].DueDate.Sub(ref).Hours() / 24.0))
		occs[i].DaysRemaining = days
		switch {
		case days <= 0:
			occs[i].Status = OccurrenceOverdue
		case days <= urgentThresholdDays:
			occs[i].Status = OccurrenceUrgent
		default:
			occs[i].Status = OccurrenceNormal
		}
	}
	return occs
}

// SortByDueDate ordena ocorrências por vencimento crescente (estável, com
// desempate pelo nome da obrigação para saída determinística).
func SortByDueDate(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if !occs[i].DueDate.Equal(occs[j].DueDate) {
			return occs[i].DueDate.Before(occs[j].DueDate)
		}
		return occs[i].Obligation.Name < occs[j].Obligation.Name
	})
}

// clampedDate monta a data (y, m, day) ajustando day ao último dia válido do
// mês (ex.: dia 31 em fevereiro vira 28/29, nunca erro).
func clampedDate(y int, m time.Month, day int, loc *time.Location) time.Time {
	if day < 1 {
		day = 1
	}
	last := daysInMonth(y, m)
	if day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// daysInMonth número de dias do mês (dia 0 do mês seguinte).
func daysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
