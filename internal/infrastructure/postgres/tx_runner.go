package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	draftapp "github.com/agrofiscal/agrofiscal-api/internal/application/draft"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
)

var _ draftapp.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repositórios atados a ela e faz
// Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	drafts repository.DraftRepository,
	docs repository.DocumentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	drafts := NewDraftRepository(tx)
	docs := NewDocumentRepository(tx)

	if err := fn(drafts, docs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
