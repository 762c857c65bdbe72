package repository

import "github.com/agrofiscal/agrofiscal-api/internal/domain/entity"

// DraftRepository define o porto de persistência de rascunhos e itens.
type DraftRepository interface {
	// Create persiste o rascunho e seus itens iniciais.
	Create(d *entity.Draft, items []entity.DraftItem) error
	GetByID(id string) (*entity.Draft, error)
	// GetForUpdate obtém o rascunho bloqueando a linha (SELECT ... FOR UPDATE).
	// Toda transição de status deve passar por aqui dentro de uma transação:
	// o guard lê o status atual e a escrita grava o novo, então chamadas
	// concorrentes contra o mesmo rascunho precisam ser serializadas.
	GetForUpdate(id string) (*entity.Draft, error)
	Update(d *entity.Draft) error
	// ReplaceItems substitui todos os itens do rascunho.
	ReplaceItems(draftID string, items []entity.DraftItem) error
	GetItems(draftID string) ([]entity.DraftItem, error)
	// ListByProducer filtra por status quando status != "".
	ListByProducer(producerID string, status entity.DraftStatus) ([]*entity.Draft, error)
}
