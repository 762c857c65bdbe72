package draft

import (
	"context"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco, passando
// repositórios atados a essa transação. Toda transição de status de rascunho
// (e a finalização, que grava rascunho + documento) roda por aqui: o
// GetForUpdate do repositório só serializa escritores concorrentes se leitura
// e escrita compartilharem a mesma transação.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		drafts repository.DraftRepository,
		docs repository.DocumentRepository,
	) error) error
}
