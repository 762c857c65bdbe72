package repository

import "github.com/agrofiscal/agrofiscal-api/internal/domain/entity"

// ProducerRepository define o porto de persistência do produtor rural.
type ProducerRepository interface {
	Create(p *entity.Producer) error
	GetByID(id string) (*entity.Producer, error)
	GetByTaxID(taxID string) (*entity.Producer, error)
	List() ([]*entity.Producer, error)
}
