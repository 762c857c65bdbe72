package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrProducerNotFound  = errors.New("produtor não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acesso negado")
	ErrDraftNotEditable  = errors.New("rascunho não pode ser editado no status atual")
	ErrUnknownRecurrence = errors.New("tipo de recorrência desconhecido")
)

// InvalidTransitionError indica um evento não permitido a partir do status atual
// do rascunho. Carrega status e evento para que o caller decida entre recarregar
// o estado e tentar de novo ou exibir falha terminal.
type InvalidTransitionError struct {
	Current string // status atual do rascunho
	Event   string // evento tentado
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transição inválida: evento %q não permitido no status %q", e.Event, e.Current)
}

// PreconditionError indica uma pré-condição violada em uma operação que exige
// estado específico (ex.: finalizar um rascunho não aprovado). Nunca é
// reexecutada automaticamente.
type PreconditionError struct {
	Current string // status atual do rascunho
	Event   string // operação tentada
	Reason  string // detalhe legível da pré-condição violada
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("pré-condição violada em %q (status %q): %s", e.Event, e.Current, e.Reason)
}
