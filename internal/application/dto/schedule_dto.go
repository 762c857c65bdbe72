package dto

import (
	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
)

// OccurrenceResponse uma ocorrência de vencimento na agenda do produtor.
type OccurrenceResponse struct {
	Obligation     string           `json:"obrigacao"`
	Description    string           `json:"descricao,omitempty"`
	Recurrence     string           `json:"recorrencia"`
	DueDate        string           `json:"vencimento"` // YYYY-MM-DD
	DaysRemaining  int              `json:"dias_restantes"`
	Status         string           `json:"status"` // vencida | urgente | normal
	Mandatory      bool             `json:"obrigatoria"`
	EstimatedValue *decimal.Decimal `json:"valor_estimado,omitempty"`
}

// ReminderResponse um lembrete derivado (ocorrência × antecedência).
type ReminderResponse struct {
	Obligation string `json:"obrigacao"`
	DueDate    string `json:"vencimento"`
	LeadDays   int    `json:"antecedencia_dias"`
	NotifyAt   string `json:"notificar_em"` // YYYY-MM-DD
	Sent       bool   `json:"enviado"`
}

// DispatchResponse resultado do despacho de lembretes via canal de saída.
type DispatchResponse struct {
	Dispatched int `json:"enviados"`
	Skipped    int `json:"ignorados"`
}

// ToOccurrenceResponse converte a ocorrência de domínio para o DTO.
func ToOccurrenceResponse(occ fiscal.Occurrence) OccurrenceResponse {
	return OccurrenceResponse{
		Obligation:     occ.Obligation.Name,
		Description:    occ.Obligation.Description,
		Recurrence:     string(occ.Obligation.Recurrence),
		DueDate:        occ.DueDate.Format("2006-01-02"),
		DaysRemaining:  occ.DaysRemaining,
		Status:         string(occ.Status),
		Mandatory:      occ.Obligation.Mandatory,
		EstimatedValue: occ.Obligation.EstimatedValue,
	}
}

// ToReminderResponse converte o lembrete de domínio para o DTO.
func ToReminderResponse(r fiscal.Reminder) ReminderResponse {
	return ReminderResponse{
		Obligation: r.Occurrence.Obligation.Name,
		DueDate:    r.Occurrence.DueDate.Format("2006-01-02"),
		LeadDays:   r.LeadDays,
		NotifyAt:   r.NotifyAt.Format("2006-01-02"),
		Sent:       r.Sent,
	}
}
