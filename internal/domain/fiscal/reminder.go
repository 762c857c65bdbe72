package fiscal

import (
	"sort"
	"time"
)

// Reminder é o instante de lembrete derivado de uma ocorrência × antecedência.
// NotifyAt = vencimento − LeadDays. Lembretes cujo instante já passou são
// descartados na derivação (sem reenvio retroativo).
type Reminder struct {
	Occurrence Occurrence
	LeadDays   int
	NotifyAt   time.Time
	Sent       bool
}

// DeriveReminders produz um lembrete por par (ocorrência, antecedência) cujo
// NotifyAt seja estritamente posterior a now. Saída ordenada por NotifyAt
// crescente; o chamador pode truncar aos N mais próximos.
func DeriveReminders(occs []Occurrence, leadDays []int, now time.Time) []Reminder {
	var out []Reminder
	for _, occ := range occs {
		for _, lead := range leadDays {
			if lead < 0 {
				continue
			}
			notifyAt := occ.DueDate.AddDate(0, 0, -lead)
			if !notifyAt.After(now) {
				continue
			}
			out = append(out, Reminder{
				Occurrence: occ,
				LeadDays:   lead,
				NotifyAt:   notifyAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].NotifyAt.Equal(out[j].NotifyAt) {
			return out[i].NotifyAt.Before(out[j].NotifyAt)
		}
		return out[i].LeadDays < out[j].LeadDays
	})
	return out
}
