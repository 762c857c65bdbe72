package document

import (
	"context"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// PDFGenerator gera a representação gráfica (DANFE simplificado) de um
// documento fiscal emitido.
type PDFGenerator interface {
	GenerateDANFE(
		ctx context.Context,
		doc *entity.FiscalDocument,
		producer *entity.Producer,
		items []entity.DocumentItem,
	) ([]byte, error)
}

// XMLBuilder monta o XML do documento fiscal no leiaute simplificado da NF-e.
type XMLBuilder interface {
	BuildNFeXML(
		doc *entity.FiscalDocument,
		producer *entity.Producer,
		items []entity.DocumentItem,
	) ([]byte, error)
}
