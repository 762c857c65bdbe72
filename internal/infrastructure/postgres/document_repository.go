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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementação de DocumentRepository (usável com pool ou tx).
// Documentos são imutáveis: só INSERT e SELECT.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, producer_id, access_key, number, series, model, kind,
	operation_code, nature, counterparty_name, counterparty_tax_id,
	destination_uf, issue_date, notes, total_value, status, draft_id, created_at`

// Create persiste o documento e seus itens.
func (r *DocumentRepo) Create(doc *entity.FiscalDocument, items []entity.DocumentItem) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO fiscal_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.ProducerID, doc.AccessKey, doc.Number, doc.Series, doc.Model, doc.Kind,
		doc.OperationCode, doc.Nature, doc.CounterpartyName, doc.CounterpartyTaxID,
		doc.DestinationUF, doc.IssueDate, doc.Notes, doc.TotalValue, doc.Status,
		nullIfEmpty(doc.DraftID), doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("access key or number %d: %w", doc.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert fiscal document: %w", err)
	}

	itemQuery := `
		INSERT INTO fiscal_document_items (id, document_id, position, product_code, description,
		                                   ncm, cst, unit, quantity, unit_price, line_total,
		                                   icms_rate, icms_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.DocumentID = doc.ID
		if _, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, doc.ID, i, it.ProductCode, it.Description,
			it.NCM, it.CST, it.Unit, it.Quantity, it.UnitPrice, it.LineTotal,
			it.ICMSRate, it.ICMSValue,
		); err != nil {
			return fmt.Errorf("insert fiscal document item: %w", err)
		}
	}
	return nil
}

// GetByID obtém o documento por ID (nil se não existir).
func (r *DocumentRepo) GetByID(id string) (*entity.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fiscal_documents WHERE id = $1`
	doc, err := scanDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal document: %w", err)
	}
	return doc, nil
}

// GetItems lista os itens do documento na ordem de inserção.
func (r *DocumentRepo) GetItems(documentID string) ([]entity.DocumentItem, error) {
	query := `
		SELECT id, document_id, product_code, description, ncm, cst, unit,
		       quantity, unit_price, line_total, icms_rate, icms_value
		FROM fiscal_document_items WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("get fiscal document items: %w", err)
	}
	defer rows.Close()

	var items []entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(
			&it.ID, &it.DocumentID, &it.ProductCode, &it.Description, &it.NCM, &it.CST, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.ICMSRate, &it.ICMSValue,
		); err != nil {
			return nil, fmt.Errorf("scan fiscal document item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// NextNumber reserva o próximo número sequencial de documento. Deve rodar na
// mesma transação que insere o documento: o incremento só é definitivo no
// commit, e a linha fica bloqueada até lá.
func (r *DocumentRepo) NextNumber() (int64, error) {
	var number int64
	err := r.q.QueryRow(context.Background(), `
		UPDATE document_sequence
		SET last_number = last_number + 1
		WHERE id = 1
		RETURNING last_number`).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return number, nil
}

// ListByProducer lista os documentos do produtor, do mais recente ao mais antigo.
func (r *DocumentRepo) ListByProducer(producerID string) ([]*entity.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fiscal_documents
		WHERE producer_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, producerID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.FiscalDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fiscal document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func scanDocument(row pgx.Row) (*entity.FiscalDocument, error) {
	var doc entity.FiscalDocument
	var draftID *string
	err := row.Scan(
		&doc.ID, &doc.ProducerID, &doc.AccessKey, &doc.Number, &doc.Series, &doc.Model, &doc.Kind,
		&doc.OperationCode, &doc.Nature, &doc.CounterpartyName, &doc.CounterpartyTaxID,
		&doc.DestinationUF, &doc.IssueDate, &doc.Notes, &doc.TotalValue, &doc.Status,
		&draftID, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if draftID != nil {
		doc.DraftID = *draftID
	}
	return &doc, nil
}
