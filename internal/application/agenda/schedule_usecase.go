// Package agenda: casos de uso da agenda de obrigações — expansão de
// ocorrências na janela, derivação de lembretes e despacho via canal de saída.
package agenda

import (
	"context"
	"errors"
	"time"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/application/ports"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
	"github.com/agrofiscal/agrofiscal-api/pkg/logger"
)

// ScheduleUseCase expande o catálogo de obrigações para o regime do produtor
// e deriva lembretes. Nada aqui é persistido: ocorrências e lembretes são
// recalculados a cada chamada.
type ScheduleUseCase struct {
	producers repository.ProducerRepository
	catalog   *fiscal.Catalog
	notifier  ports.ReminderNotifier // nil = despacho desabilitado
	log       *logger.Logger

	defaultWindowDays int
	defaultLeadDays   []int
}

// NewScheduleUseCase constrói o caso de uso da agenda.
func NewScheduleUseCase(
	producers repository.ProducerRepository,
	catalog *fiscal.Catalog,
	notifier ports.ReminderNotifier,
	log *logger.Logger,
	defaultWindowDays int,
	defaultLeadDays []int,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		producers:         producers,
		catalog:           catalog,
		notifier:          notifier,
		log:               log,
		defaultWindowDays: defaultWindowDays,
		defaultLeadDays:   defaultLeadDays,
	}
}

// occurrences expande todos os templates do regime do produtor na janela
// [now, now+windowDays], ordenados por vencimento. Template com recorrência
// desconhecida é registrado e pulado; o lote nunca aborta por causa dele.
func (uc *ScheduleUseCase) occurrences(producerID string, windowDays int, now time.Time) ([]fiscal.Occurrence, error) {
	producer, err := uc.producers.GetByID(producerID)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.ErrProducerNotFound
	}
	if windowDays <= 0 {
		windowDays = uc.defaultWindowDays
	}
	end := now.AddDate(0, 0, windowDays)

	var all []fiscal.Occurrence
	for _, tpl := range uc.catalog.ForRegime(producer.Regime) {
		occs, err := fiscal.Expand(tpl, now, end)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownRecurrence) {
				uc.log.Warn().
					Str("obrigacao", tpl.Name).
					Str("recorrencia", string(tpl.Recurrence)).
					Msg("template com recorrência desconhecida ignorado")
				continue
			}
			return nil, err
		}
		all = append(all, occs...)
	}
	fiscal.SortByDueDate(all)
	return fiscal.ApplyReference(all, now), nil
}

// Occurrences devolve a agenda de vencimentos do produtor na janela dada
// (windowDays ≤ 0 usa o padrão configurado).
func (uc *ScheduleUseCase) Occurrences(producerID string, windowDays int) ([]dto.OccurrenceResponse, error) {
	occs, err := uc.occurrences(producerID, windowDays, time.Now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.OccurrenceResponse, 0, len(occs))
	for _, occ := range occs {
		out = append(out, dto.ToOccurrenceResponse(occ))
	}
	return out, nil
}

// Reminders deriva os lembretes futuros da agenda do produtor, um por par
// (ocorrência, antecedência), ordenados pelo instante de notificação.
func (uc *ScheduleUseCase) Reminders(producerID string, windowDays int, leadDays []int) ([]dto.ReminderResponse, error) {
	now := time.Now()
	occs, err := uc.occurrences(producerID, windowDays, now)
	if err != nil {
		return nil, err
	}
	if len(leadDays) == 0 {
		leadDays = uc.defaultLeadDays
	}
	reminders := fiscal.DeriveReminders(occs, leadDays, now)
	out := make([]dto.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, dto.ToReminderResponse(r))
	}
	return out, nil
}

// Dispatch deriva os lembretes cujo instante de notificação cai nas próximas
// 24h e os envia pelo canal configurado. Falha de envio individual conta como
// ignorado e não interrompe o lote.
func (uc *ScheduleUseCase) Dispatch(ctx context.Context, producerID string) (*dto.DispatchResponse, error) {
	if uc.notifier == nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	occs, err := uc.occurrences(producerID, 0, now)
	if err != nil {
		return nil, err
	}
	reminders := fiscal.DeriveReminders(occs, uc.defaultLeadDays, now)

	resp := &dto.DispatchResponse{}
	cutoff := now.AddDate(0, 0, 1)
	for _, r := range reminders {
		if r.NotifyAt.After(cutoff) {
			resp.Skipped++
			continue
		}
		if err := uc.notifier.Notify(ctx, producerID, r); err != nil {
			uc.log.Warn().
				Err(err).
				Str("produtor", producerID).
				Str("obrigacao", r.Occurrence.Obligation.Name).
				Msg("falha no envio de lembrete")
			resp.Skipped++
			continue
		}
		resp.Dispatched++
	}
	return resp, nil
}
