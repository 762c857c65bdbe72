// Package draft: casos de uso do ciclo de vida do rascunho de documento
// fiscal — criação, edição, envio, revisão e finalização. As regras de
// transição ficam no pacote workflow; aqui entram persistência, transação e
// checagem de posse.
package draft

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/workflow"
	"github.com/agrofiscal/agrofiscal-api/pkg/logger"
)

// UseCase casos de uso de criação, consulta e transição de rascunhos.
type UseCase struct {
	txRunner  TxRunner
	drafts    repository.DraftRepository
	producers repository.ProducerRepository
	log       *logger.Logger
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner TxRunner,
	drafts repository.DraftRepository,
	producers repository.ProducerRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, drafts: drafts, producers: producers, log: log}
}

// Create cria um rascunho novo com cabeçalho e itens. O rascunho nasce em
// "rascunho" com uma chave provisória que nunca vira chave de acesso final.
// Cabeçalho e itens entram na mesma transação: falha no meio não deixa
// rascunho parcial.
func (uc *UseCase) Create(ctx context.Context, producerID string, in dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	producer, err := uc.producers.GetByID(producerID)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.ErrProducerNotFound
	}

	d, err := buildDraft(producerID, in.DraftHeaderRequest)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(d.ID, in.Items)
	if err != nil {
		return nil, err
	}
	d.TotalValue = entity.SumItems(items)

	err = uc.txRunner.Run(ctx, func(drafts repository.DraftRepository, _ repository.DocumentRepository) error {
		return drafts.Create(d, items)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("rascunho", d.ID).
		Str("produtor", producerID).
		Int("itens", len(items)).
		Msg("rascunho criado")

	resp := dto.ToDraftResponse(d, items)
	return &resp, nil
}

// Get devolve o rascunho com itens. Produtor só enxerga os próprios
// rascunhos; revisor (contador) enxerga qualquer um.
func (uc *UseCase) Get(draftID, requesterID string, reviewer bool) (*dto.DraftResponse, error) {
	d, err := uc.drafts.GetByID(draftID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if !reviewer && d.ProducerID != requesterID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.drafts.GetItems(draftID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDraftResponse(d, items)
	return &resp, nil
}

// List lista os rascunhos do produtor, filtrando por status quando informado.
func (uc *UseCase) List(producerID string, status string) ([]dto.DraftResponse, error) {
	drafts, err := uc.drafts.ListByProducer(producerID, entity.DraftStatus(status))
	if err != nil {
		return nil, err
	}
	out := make([]dto.DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, dto.ToDraftResponse(d, nil))
	}
	return out, nil
}

// Update substitui cabeçalho e/ou itens de um rascunho editável. Editar um
// rascunho devolvido limpa o feedback da revisão e o retorna ao status
// rascunho.
func (uc *UseCase) Update(ctx context.Context, draftID, producerID string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	var resp dto.DraftResponse
	err := uc.txRunner.Run(ctx, func(drafts repository.DraftRepository, _ repository.DocumentRepository) error {
		d, err := uc.lockOwned(drafts, draftID, producerID)
		if err != nil {
			return err
		}
		if !d.Editable() {
			return domain.ErrDraftNotEditable
		}

		if in.Header != nil {
			if err := applyHeader(d, *in.Header); err != nil {
				return err
			}
		}

		items, err := drafts.GetItems(draftID)
		if err != nil {
			return err
		}
		if in.Items != nil {
			items, err = buildItems(draftID, in.Items)
			if err != nil {
				return err
			}
			if err := drafts.ReplaceItems(draftID, items); err != nil {
				return err
			}
		}
		d.TotalValue = entity.SumItems(items)

		if err := workflow.Apply(d, workflow.Event{Kind: workflow.EventEdit}, time.Now()); err != nil {
			return err
		}
		if err := drafts.Update(d); err != nil {
			return err
		}
		resp = dto.ToDraftResponse(d, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit envia o rascunho para revisão do contador. A validação de envio
// (contraparte, UF de destino, data de emissão, itens positivos) roda dentro
// da transição.
func (uc *UseCase) Submit(ctx context.Context, draftID, producerID string) (*dto.DraftResponse, error) {
	var resp dto.DraftResponse
	err := uc.txRunner.Run(ctx, func(drafts repository.DraftRepository, _ repository.DocumentRepository) error {
		d, err := uc.lockOwned(drafts, draftID, producerID)
		if err != nil {
			return err
		}
		items, err := drafts.GetItems(draftID)
		if err != nil {
			return err
		}
		if err := workflow.Apply(d, workflow.Event{Kind: workflow.EventSubmit, Items: items}, time.Now()); err != nil {
			return err
		}
		if err := drafts.Update(d); err != nil {
			return err
		}
		resp = dto.ToDraftResponse(d, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("rascunho", draftID).Msg("rascunho enviado para revisão")
	return &resp, nil
}

// Review registra a decisão do contador sobre um rascunho enviado:
// aprovado, revisao_solicitada (com feedback e correções sugeridas) ou
// rejeitado (terminal).
func (uc *UseCase) Review(ctx context.Context, draftID, contadorID string, in dto.ReviewDraftRequest) (*dto.DraftResponse, error) {
	var resp dto.DraftResponse
	err := uc.txRunner.Run(ctx, func(drafts repository.DraftRepository, _ repository.DocumentRepository) error {
		d, err := drafts.GetForUpdate(draftID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		ev := workflow.Event{
			Kind:             workflow.EventReview,
			Decision:         entity.DraftStatus(in.Decision),
			ContadorID:       contadorID,
			Feedback:         in.Feedback,
			Corrections:      in.Corrections,
			CorrectedPayload: in.CorrectedPayload,
		}
		if err := workflow.Apply(d, ev, time.Now()); err != nil {
			return err
		}
		if err := drafts.Update(d); err != nil {
			return err
		}
		resp = dto.ToDraftResponse(d, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("rascunho", draftID).
		Str("contador", contadorID).
		Str("decisao", in.Decision).
		Msg("rascunho revisado")
	return &resp, nil
}

// lockOwned obtém o rascunho com lock de linha e confere a posse.
func (uc *UseCase) lockOwned(drafts repository.DraftRepository, draftID, producerID string) (*entity.Draft, error) {
	d, err := drafts.GetForUpdate(draftID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.ProducerID != producerID {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

// buildDraft monta a entidade a partir do cabeçalho da requisição.
func buildDraft(producerID string, h dto.DraftHeaderRequest) (*entity.Draft, error) {
	now := time.Now()
	d := &entity.Draft{
		ID:           uuid.New().String(),
		ProducerID:   producerID,
		Status:       entity.DraftStatusDraft,
		TemporaryKey: "RAS-" + uuid.New().String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applyHeader(d, h); err != nil {
		return nil, err
	}
	return d, nil
}

// applyHeader escreve os campos de cabeçalho, validando tipo e data.
func applyHeader(d *entity.Draft, h dto.DraftHeaderRequest) error {
	kind := entity.DraftKind(h.Kind)
	if kind != entity.DraftKindEntrada && kind != entity.DraftKindSaida {
		return fmt.Errorf("%w: tipo de operação inválido %q", domain.ErrInvalidInput, h.Kind)
	}
	d.Kind = kind
	d.OperationCode = strings.TrimSpace(h.OperationCode)
	d.Nature = strings.TrimSpace(h.Nature)
	d.CounterpartyName = strings.TrimSpace(h.CounterpartyName)
	d.CounterpartyTaxID = strings.TrimSpace(h.CounterpartyTaxID)
	d.DestinationUF = strings.ToUpper(strings.TrimSpace(h.DestinationUF))
	d.Notes = h.Notes
	if h.IssueDate != "" {
		issue, err := time.Parse("2006-01-02", h.IssueDate)
		if err != nil {
			return fmt.Errorf("%w: data de emissão inválida %q", domain.ErrInvalidInput, h.IssueDate)
		}
		d.IssueDate = issue
	}
	return nil
}

// buildItems monta os itens calculando LineTotal e ICMSValue por linha.
func buildItems(draftID string, reqs []dto.DraftItemRequest) ([]entity.DraftItem, error) {
	items := make([]entity.DraftItem, 0, len(reqs))
	for i, r := range reqs {
		if strings.TrimSpace(r.Description) == "" {
			return nil, fmt.Errorf("%w: item %d sem descrição", domain.ErrInvalidInput, i+1)
		}
		if !r.Quantity.GreaterThan(decimal.Zero) || !r.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: item %d exige quantidade e preço unitário positivos", domain.ErrInvalidInput, i+1)
		}
		if r.ICMSRate.IsNegative() || r.ICMSRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: item %d com alíquota de ICMS fora de [0,1]", domain.ErrInvalidInput, i+1)
		}
		lineTotal := r.Quantity.Mul(r.UnitPrice)
		items = append(items, entity.DraftItem{
			ID:          uuid.New().String(),
			DraftID:     draftID,
			ProductCode: r.ProductCode,
			Description: strings.TrimSpace(r.Description),
			NCM:         r.NCM,
			CST:         r.CST,
			Unit:        r.Unit,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			LineTotal:   lineTotal,
			ICMSRate:    r.ICMSRate,
			ICMSValue:   lineTotal.Mul(r.ICMSRate),
		})
	}
	return items, nil
}
