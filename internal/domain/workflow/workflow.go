// Package workflow: máquina de estados do ciclo de vida do rascunho.
// A tabela de transições fica em um único ponto de despacho (Apply); adicionar
// um status novo obriga a revisitar todas as transições aqui, não em
// condicionais espalhadas pelos use cases.
//
//	rascunho → enviado → {aprovado, revisao_solicitada, rejeitado}
//	revisao_solicitada → rascunho (ao editar)
//	aprovado → finalizado (terminal)
//	rejeitado: terminal — reabertura só criando um rascunho novo
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// EventKind evento do ciclo de vida.
type EventKind string

const (
	EventSubmit   EventKind = "submit"
	EventReview   EventKind = "review"
	EventEdit     EventKind = "edit"
	EventFinalize EventKind = "finalize"
)

// Event carrega o evento e sua carga útil. Items acompanha submit (validação)
// e edit (os itens que substituirão os atuais). Os campos de revisão
// acompanham review.
type Event struct {
	Kind EventKind

	// review
	Decision         entity.DraftStatus // aprovado | revisao_solicitada | rejeitado
	ContadorID       string
	Feedback         string
	Corrections      map[string]string
	CorrectedPayload map[string]string

	// submit / edit
	Items []entity.DraftItem
}

// allowedFrom tabela de transições: estados de origem válidos por evento.
var allowedFrom = map[EventKind][]entity.DraftStatus{
	EventSubmit:   {entity.DraftStatusDraft},
	EventReview:   {entity.DraftStatusSubmitted},
	EventEdit:     {entity.DraftStatusDraft, entity.DraftStatusNeedsRevision},
	EventFinalize: {entity.DraftStatusApproved},
}

// reviewDecisions decisões aceitas no evento review.
var reviewDecisions = map[entity.DraftStatus]bool{
	entity.DraftStatusApproved:      true,
	entity.DraftStatusNeedsRevision: true,
	entity.DraftStatusRejected:      true,
}

// Apply valida o evento contra o status atual do rascunho e aplica o efeito.
// Evento fora da tabela retorna InvalidTransitionError (fatal para a
// requisição, não para o processo); finalize fora de aprovado retorna
// PreconditionError, conforme a taxonomia de erros do serviço.
func Apply(d *entity.Draft, ev Event, now time.Time) error {
	states, ok := allowedFrom[ev.Kind]
	if !ok {
		return fmt.Errorf("%w: evento desconhecido %q", domain.ErrInvalidInput, ev.Kind)
	}
	if !statusIn(d.Status, states) {
		if ev.Kind == EventFinalize {
			return &domain.PreconditionError{
				Current: string(d.Status),
				Event:   string(ev.Kind),
				Reason:  "finalização exige rascunho aprovado",
			}
		}
		return &domain.InvalidTransitionError{Current: string(d.Status), Event: string(ev.Kind)}
	}

	switch ev.Kind {
	case EventSubmit:
		if err := validateForSubmit(d, ev.Items); err != nil {
			return err
		}
		d.Status = entity.DraftStatusSubmitted
		d.SubmittedAt = &now

	case EventReview:
		if !reviewDecisions[ev.Decision] {
			return fmt.Errorf("%w: decisão de revisão inválida %q", domain.ErrInvalidInput, ev.Decision)
		}
		d.Status = ev.Decision
		d.ContadorID = ev.ContadorID
		d.ReviewFeedback = ev.Feedback
		d.SuggestedCorrections = ev.Corrections
		d.CorrectedPayload = ev.CorrectedPayload
		d.ReviewedAt = &now

	case EventEdit:
		// editar um rascunho devolvido limpa o feedback anterior e o devolve
		// ao status rascunho
		d.ClearReview()
		d.Status = entity.DraftStatusDraft

	case EventFinalize:
		if d.FinalDocumentID != "" {
			return &domain.PreconditionError{
				Current: string(d.Status),
				Event:   string(ev.Kind),
				Reason:  "rascunho já possui documento oficial vinculado",
			}
		}
		d.Status = entity.DraftStatusFinalized
	}

	d.UpdatedAt = now
	return nil
}

// validateForSubmit espelha o esquema do rascunho: identidade da contraparte,
// UF de destino, data de emissão e ao menos um item com quantidade e preço
// positivos.
func validateForSubmit(d *entity.Draft, items []entity.DraftItem) error {
	var missing []string
	if strings.TrimSpace(d.CounterpartyName) == "" || strings.TrimSpace(d.CounterpartyTaxID) == "" {
		missing = append(missing, "contraparte")
	}
	if strings.TrimSpace(d.DestinationUF) == "" {
		missing = append(missing, "uf_destino")
	}
	if d.IssueDate.IsZero() {
		missing = append(missing, "data_emissao")
	}
	if len(items) == 0 {
		missing = append(missing, "itens")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: campos obrigatórios ausentes para envio: %s",
			domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	for i, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) || !it.UnitPrice.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: item %d exige quantidade e preço unitário positivos", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func statusIn(s entity.DraftStatus, list []entity.DraftStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
