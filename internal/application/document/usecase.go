// Package document: consulta e exportação (PDF/XML) de documentos fiscais
// emitidos. Documentos são imutáveis: este pacote só lê.
package document

import (
	"context"
	"fmt"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
)

// UseCase casos de uso de consulta e download de documentos fiscais.
type UseCase struct {
	docs      repository.DocumentRepository
	producers repository.ProducerRepository
	pdfGen    PDFGenerator
	xml       XMLBuilder
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	docs repository.DocumentRepository,
	producers repository.ProducerRepository,
	pdfGen PDFGenerator,
	xml XMLBuilder,
) *UseCase {
	return &UseCase{docs: docs, producers: producers, pdfGen: pdfGen, xml: xml}
}

// Get devolve o documento com itens. Produtor só enxerga os próprios
// documentos; revisor enxerga qualquer um.
func (uc *UseCase) Get(documentID, requesterID string, reviewer bool) (*dto.DocumentResponse, error) {
	doc, _, items, err := uc.load(documentID, requesterID, reviewer)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDocumentResponse(doc, items)
	return &resp, nil
}

// List lista os documentos emitidos do produtor.
func (uc *UseCase) List(producerID string) ([]dto.DocumentResponse, error) {
	docs, err := uc.docs.ListByProducer(producerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, dto.ToDocumentResponse(doc, nil))
	}
	return out, nil
}

// DownloadPDF gera o DANFE simplificado do documento e devolve bytes e nome
// de arquivo sugerido.
func (uc *UseCase) DownloadPDF(ctx context.Context, documentID, requesterID string, reviewer bool) ([]byte, string, error) {
	doc, producer, items, err := uc.load(documentID, requesterID, reviewer)
	if err != nil {
		return nil, "", err
	}
	raw, err := uc.pdfGen.GenerateDANFE(ctx, doc, producer, items)
	if err != nil {
		return nil, "", fmt.Errorf("document: geração do PDF: %w", err)
	}
	return raw, fmt.Sprintf("nfe_%s_%09d.pdf", doc.Series, doc.Number), nil
}

// DownloadXML monta o XML do documento e devolve bytes e nome de arquivo.
func (uc *UseCase) DownloadXML(documentID, requesterID string, reviewer bool) ([]byte, string, error) {
	doc, producer, items, err := uc.load(documentID, requesterID, reviewer)
	if err != nil {
		return nil, "", err
	}
	raw, err := uc.xml.BuildNFeXML(doc, producer, items)
	if err != nil {
		return nil, "", fmt.Errorf("document: montagem do XML: %w", err)
	}
	return raw, fmt.Sprintf("nfe_%s.xml", doc.AccessKey), nil
}

// load carrega documento, emitente e itens com checagem de posse.
func (uc *UseCase) load(documentID, requesterID string, reviewer bool) (*entity.FiscalDocument, *entity.Producer, []entity.DocumentItem, error) {
	doc, err := uc.docs.GetByID(documentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if doc == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	if !reviewer && doc.ProducerID != requesterID {
		return nil, nil, nil, domain.ErrForbidden
	}
	producer, err := uc.producers.GetByID(doc.ProducerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if producer == nil {
		return nil, nil, nil, domain.ErrProducerNotFound
	}
	items, err := uc.docs.GetItems(documentID)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, producer, items, nil
}
