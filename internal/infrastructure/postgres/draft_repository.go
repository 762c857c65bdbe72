package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo implementação de DraftRepository (usável com pool ou tx).
type DraftRepo struct {
	q Querier
}

// NewDraftRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

const draftColumns = `
	id, producer_id, contador_id, kind, operation_code, nature,
	counterparty_name, counterparty_tax_id, destination_uf, issue_date, notes,
	total_value, temporary_key, status,
	review_feedback, suggested_corrections, corrected_payload,
	final_document_id, submitted_at, reviewed_at, created_at, updated_at`

// Create persiste o rascunho e seus itens iniciais.
func (r *DraftRepo) Create(d *entity.Draft, items []entity.DraftItem) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	corrections, err := jsonOrNil(d.SuggestedCorrections)
	if err != nil {
		return fmt.Errorf("serialize corrections: %w", err)
	}
	payload, err := jsonOrNil(d.CorrectedPayload)
	if err != nil {
		return fmt.Errorf("serialize corrected payload: %w", err)
	}
	query := `
		INSERT INTO drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err = r.q.Exec(context.Background(), query,
		d.ID, d.ProducerID, nullIfEmpty(d.ContadorID), d.Kind, d.OperationCode, d.Nature,
		d.CounterpartyName, d.CounterpartyTaxID, d.DestinationUF, d.IssueDate, d.Notes,
		d.TotalValue, d.TemporaryKey, d.Status,
		nullIfEmpty(d.ReviewFeedback), corrections, payload,
		nullIfEmpty(d.FinalDocumentID), d.SubmittedAt, d.ReviewedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("draft %s: %w", d.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return r.insertItems(d.ID, items)
}

// GetByID obtém o rascunho por ID (nil se não existir).
func (r *DraftRepo) GetByID(id string) (*entity.Draft, error) {
	return r.get(id, false)
}

// GetForUpdate obtém o rascunho bloqueando a linha (SELECT ... FOR UPDATE).
// Usar sempre dentro de transação: é o que serializa escritores concorrentes
// contra o mesmo rascunho.
func (r *DraftRepo) GetForUpdate(id string) (*entity.Draft, error) {
	return r.get(id, true)
}

func (r *DraftRepo) get(id string, forUpdate bool) (*entity.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	d, err := scanDraft(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// Update grava todos os campos mutáveis do rascunho.
func (r *DraftRepo) Update(d *entity.Draft) error {
	corrections, err := jsonOrNil(d.SuggestedCorrections)
	if err != nil {
		return fmt.Errorf("serialize corrections: %w", err)
	}
	payload, err := jsonOrNil(d.CorrectedPayload)
	if err != nil {
		return fmt.Errorf("serialize corrected payload: %w", err)
	}
	query := `
		UPDATE drafts
		SET contador_id           = $2,
		    kind                  = $3,
		    operation_code        = $4,
		    nature                = $5,
		    counterparty_name     = $6,
		    counterparty_tax_id   = $7,
		    destination_uf        = $8,
		    issue_date            = $9,
		    notes                 = $10,
		    total_value           = $11,
		    status                = $12,
		    review_feedback       = $13,
		    suggested_corrections = $14,
		    corrected_payload     = $15,
		    final_document_id     = $16,
		    submitted_at          = $17,
		    reviewed_at           = $18,
		    updated_at            = $19
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		d.ID, nullIfEmpty(d.ContadorID), d.Kind, d.OperationCode, d.Nature,
		d.CounterpartyName, d.CounterpartyTaxID, d.DestinationUF, d.IssueDate, d.Notes,
		d.TotalValue, d.Status,
		nullIfEmpty(d.ReviewFeedback), corrections, payload,
		nullIfEmpty(d.FinalDocumentID), d.SubmittedAt, d.ReviewedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update draft: rascunho %s não existe", d.ID)
	}
	return nil
}

// ReplaceItems substitui todos os itens do rascunho (delete + insert).
func (r *DraftRepo) ReplaceItems(draftID string, items []entity.DraftItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM draft_items WHERE draft_id = $1`, draftID); err != nil {
		return fmt.Errorf("delete draft items: %w", err)
	}
	return r.insertItems(draftID, items)
}

// GetItems lista os itens do rascunho na ordem de inserção.
func (r *DraftRepo) GetItems(draftID string) ([]entity.DraftItem, error) {
	query := `
		SELECT id, draft_id, product_code, description, ncm, cst, unit,
		       quantity, unit_price, line_total, icms_rate, icms_value
		FROM draft_items WHERE draft_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, draftID)
	if err != nil {
		return nil, fmt.Errorf("get draft items: %w", err)
	}
	defer rows.Close()

	var items []entity.DraftItem
	for rows.Next() {
		var it entity.DraftItem
		if err := rows.Scan(
			&it.ID, &it.DraftID, &it.ProductCode, &it.Description, &it.NCM, &it.CST, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.ICMSRate, &it.ICMSValue,
		); err != nil {
			return nil, fmt.Errorf("scan draft item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByProducer lista os rascunhos do produtor, do mais recente ao mais
// antigo; filtra por status quando status != "".
func (r *DraftRepo) ListByProducer(producerID string, status entity.DraftStatus) ([]*entity.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE producer_id = $1`
	args := []any{producerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DraftRepo) insertItems(draftID string, items []entity.DraftItem) error {
	query := `
		INSERT INTO draft_items (id, draft_id, position, product_code, description, ncm, cst, unit,
		                         quantity, unit_price, line_total, icms_rate, icms_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.DraftID = draftID
		if _, err := r.q.Exec(context.Background(), query,
			it.ID, draftID, i, it.ProductCode, it.Description, it.NCM, it.CST, it.Unit,
			it.Quantity, it.UnitPrice, it.LineTotal, it.ICMSRate, it.ICMSValue,
		); err != nil {
			return fmt.Errorf("insert draft item: %w", err)
		}
	}
	return nil
}

// scanDraft lê uma linha de drafts (QueryRow ou rows.Next) para a entidade.
func scanDraft(row pgx.Row) (*entity.Draft, error) {
	var d entity.Draft
	var contadorID, feedback, finalDocID *string
	var corrections, payload []byte
	err := row.Scan(
		&d.ID, &d.ProducerID, &contadorID, &d.Kind, &d.OperationCode, &d.Nature,
		&d.CounterpartyName, &d.CounterpartyTaxID, &d.DestinationUF, &d.IssueDate, &d.Notes,
		&d.TotalValue, &d.TemporaryKey, &d.Status,
		&feedback, &corrections, &payload,
		&finalDocID, &d.SubmittedAt, &d.ReviewedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if contadorID != nil {
		d.ContadorID = *contadorID
	}
	if feedback != nil {
		d.ReviewFeedback = *feedback
	}
	if finalDocID != nil {
		d.FinalDocumentID = *finalDocID
	}
	if d.SuggestedCorrections, err = mapFromJSON(corrections); err != nil {
		return nil, fmt.Errorf("parse corrections: %w", err)
	}
	if d.CorrectedPayload, err = mapFromJSON(payload); err != nil {
		return nil, fmt.Errorf("parse corrected payload: %w", err)
	}
	return &d, nil
}
