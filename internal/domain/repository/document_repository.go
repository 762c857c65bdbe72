package repository

import "github.com/agrofiscal/agrofiscal-api/internal/domain/entity"

// DocumentRepository define o porto de persistência dos documentos oficiais.
// Documentos são imutáveis após a criação: não há Update.
type DocumentRepository interface {
	// Create persiste o documento e seus itens.
	Create(doc *entity.FiscalDocument, items []entity.DocumentItem) error
	GetByID(id string) (*entity.FiscalDocument, error)
	GetItems(documentID string) ([]entity.DocumentItem, error)
	// NextNumber reserva e devolve o próximo número sequencial de documento.
	// Deve ser chamado dentro da mesma transação que cria o documento.
	NextNumber() (int64, error)
	ListByProducer(producerID string) ([]*entity.FiscalDocument, error)
}
