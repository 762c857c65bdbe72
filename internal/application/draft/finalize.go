package draft

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/nfe"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/workflow"
	"github.com/agrofiscal/agrofiscal-api/pkg/logger"
)

// EmissionConfig parâmetros fixos de emissão usados na chave de acesso.
type EmissionConfig struct {
	Model        string // modelo do documento ("55")
	Series       string // série de emissão
	EmissionType string // tipo de emissão (1 dígito)
}

// FinalizeUseCase converte um rascunho aprovado no documento oficial imutável,
// ou emite um documento direto sem passar pelo fluxo de revisão. Cada emissão
// reserva um número sequencial e gera uma chave de acesso nova; a chave
// provisória do rascunho nunca é reaproveitada.
type FinalizeUseCase struct {
	txRunner  TxRunner
	producers repository.ProducerRepository
	emission  EmissionConfig
	log       *logger.Logger
}

// NewFinalizeUseCase constrói o caso de uso de emissão.
func NewFinalizeUseCase(
	txRunner TxRunner,
	producers repository.ProducerRepository,
	emission EmissionConfig,
	log *logger.Logger,
) *FinalizeUseCase {
	return &FinalizeUseCase{txRunner: txRunner, producers: producers, emission: emission, log: log}
}

// Finalize emite o documento oficial a partir de um rascunho aprovado.
// Transacional: ou o documento é criado E o rascunho vai para finalizado com o
// vínculo gravado, ou nada muda. Não é idempotente — repetir a chamada falha
// no guard de status (o rascunho já está finalizado).
func (uc *FinalizeUseCase) Finalize(ctx context.Context, draftID, producerID string) (*dto.FinalizeDraftResponse, error) {
	producer, err := uc.producers.GetByID(producerID)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.ErrProducerNotFound
	}

	var resp dto.FinalizeDraftResponse
	err = uc.txRunner.Run(ctx, func(drafts repository.DraftRepository, docs repository.DocumentRepository) error {
		d, err := drafts.GetForUpdate(draftID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.ProducerID != producerID {
			return domain.ErrForbidden
		}
		// o guard roda antes de qualquer escrita: falhou, nada foi gravado
		if err := workflow.Apply(d, workflow.Event{Kind: workflow.EventFinalize}, time.Now()); err != nil {
			return err
		}

		items, err := drafts.GetItems(draftID)
		if err != nil {
			return err
		}

		doc, docItems, err := uc.issueDocument(docs, producer, d, items, d.ID)
		if err != nil {
			return err
		}
		if err := docs.Create(doc, docItems); err != nil {
			return err
		}

		d.FinalDocumentID = doc.ID
		if err := drafts.Update(d); err != nil {
			return err
		}

		resp = dto.FinalizeDraftResponse{
			Draft:    dto.ToDraftResponse(d, items),
			Document: dto.ToDocumentResponse(doc, docItems),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("rascunho", draftID).
		Str("documento", resp.Document.ID).
		Str("chave", resp.Document.AccessKey).
		Msg("documento fiscal emitido a partir do rascunho")
	return &resp, nil
}

// CreateDirect emite um documento oficial sem rascunho, para quem não precisa
// do fluxo de revisão. A validação é a mesma do envio de rascunho.
func (uc *FinalizeUseCase) CreateDirect(ctx context.Context, producerID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	producer, err := uc.producers.GetByID(producerID)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.ErrProducerNotFound
	}

	// rascunho efêmero só para reaproveitar validação e cópia de cabeçalho;
	// nunca é persistido
	d, err := buildDraft(producerID, in.DraftHeaderRequest)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(d.ID, in.Items)
	if err != nil {
		return nil, err
	}
	if err := workflow.Apply(d, workflow.Event{Kind: workflow.EventSubmit, Items: items}, time.Now()); err != nil {
		return nil, err
	}

	var resp dto.DocumentResponse
	err = uc.txRunner.Run(ctx, func(_ repository.DraftRepository, docs repository.DocumentRepository) error {
		doc, docItems, err := uc.issueDocument(docs, producer, d, items, "")
		if err != nil {
			return err
		}
		if err := docs.Create(doc, docItems); err != nil {
			return err
		}
		resp = dto.ToDocumentResponse(doc, docItems)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("documento", resp.ID).
		Str("chave", resp.AccessKey).
		Msg("documento fiscal emitido diretamente")
	return &resp, nil
}

// issueDocument reserva o número sequencial, gera a chave de acesso e copia
// cabeçalho e itens do rascunho para o documento imutável. docs deve estar
// atado à transação que também persistirá o documento: a reserva do número só
// é definitiva se ela commitar.
func (uc *FinalizeUseCase) issueDocument(
	docs repository.DocumentRepository,
	producer *entity.Producer,
	d *entity.Draft,
	items []entity.DraftItem,
	originDraftID string,
) (*entity.FiscalDocument, []entity.DocumentItem, error) {
	number, err := docs.NextNumber()
	if err != nil {
		return nil, nil, err
	}

	issue := d.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	key, err := nfe.Generate(nfe.KeyParams{
		UFCode:       producer.UFCode,
		Issue:        issue,
		IssuerTaxID:  producer.TaxID,
		Model:        uc.emission.Model,
		Series:       uc.emission.Series,
		Number:       number,
		EmissionType: uc.emission.EmissionType,
		Nonce:        -1,
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	doc := &entity.FiscalDocument{
		ID:                uuid.New().String(),
		ProducerID:        producer.ID,
		AccessKey:         key,
		Number:            number,
		Series:            uc.emission.Series,
		Model:             uc.emission.Model,
		Kind:              d.Kind,
		OperationCode:     d.OperationCode,
		Nature:            d.Nature,
		CounterpartyName:  d.CounterpartyName,
		CounterpartyTaxID: d.CounterpartyTaxID,
		DestinationUF:     d.DestinationUF,
		IssueDate:         issue,
		Notes:             d.Notes,
		TotalValue:        entity.SumItems(items),
		Status:            entity.DocumentStatusValidated,
		DraftID:           originDraftID,
		CreatedAt:         now,
	}

	docItems := make([]entity.DocumentItem, 0, len(items))
	for _, it := range items {
		docItems = append(docItems, entity.DocumentItem{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			ProductCode: it.ProductCode,
			Description: it.Description,
			NCM:         it.NCM,
			CST:         it.CST,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			ICMSRate:    it.ICMSRate,
			ICMSValue:   it.ICMSValue,
		})
	}
	return doc, docItems, nil
}
