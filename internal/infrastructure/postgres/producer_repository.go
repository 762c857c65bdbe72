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

var _ repository.ProducerRepository = (*ProducerRepo)(nil)

// ProducerRepo implementação de ProducerRepository (usável com pool ou tx).
type ProducerRepo struct {
	q Querier
}

// NewProducerRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProducerRepository(q Querier) *ProducerRepo {
	return &ProducerRepo{q: q}
}

const producerColumns = `
	id, name, tax_id, state_registration, uf, uf_code, municipality,
	regime, email, phone, created_at, updated_at`

// Create persiste o produtor.
func (r *ProducerRepo) Create(p *entity.Producer) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO producers (` + producerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.TaxID, nullIfEmpty(p.StateRegistration), p.UF, p.UFCode,
		nullIfEmpty(p.Municipality), p.Regime, nullIfEmpty(p.Email), nullIfEmpty(p.Phone),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producer tax id %s: %w", p.TaxID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert producer: %w", err)
	}
	return nil
}

// GetByID obtém o produtor por ID (nil se não existir).
func (r *ProducerRepo) GetByID(id string) (*entity.Producer, error) {
	query := `SELECT ` + producerColumns + ` FROM producers WHERE id = $1`
	return r.getOne(query, id)
}

// GetByTaxID obtém o produtor pelo CPF/CNPJ (nil se não existir).
func (r *ProducerRepo) GetByTaxID(taxID string) (*entity.Producer, error) {
	query := `SELECT ` + producerColumns + ` FROM producers WHERE tax_id = $1`
	return r.getOne(query, taxID)
}

func (r *ProducerRepo) getOne(query string, arg any) (*entity.Producer, error) {
	p, err := scanProducer(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producer: %w", err)
	}
	return p, nil
}

// List lista todos os produtores por nome.
func (r *ProducerRepo) List() ([]*entity.Producer, error) {
	query := `SELECT ` + producerColumns + ` FROM producers ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Producer
	for rows.Next() {
		p, err := scanProducer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producer: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProducer(row pgx.Row) (*entity.Producer, error) {
	var p entity.Producer
	var stateReg, municipality, email, phone *string
	err := row.Scan(
		&p.ID, &p.Name, &p.TaxID, &stateReg, &p.UF, &p.UFCode, &municipality,
		&p.Regime, &email, &phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	derefStr := func(s *string) string {
		if s != nil {
			return *s
		}
		return ""
	}
	p.StateRegistration = derefStr(stateReg)
	p.Municipality = derefStr(municipality)
	p.Email = derefStr(email)
	p.Phone = derefStr(phone)
	return &p, nil
}
