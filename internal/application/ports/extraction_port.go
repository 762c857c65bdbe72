package ports

import (
	"context"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
)

// ItemExtractor define o porto de saída para a extração assistida de itens a
// partir de texto livre (nota manuscrita, mensagem do produtor). Qualquer
// adaptador (Anthropic, mock) implementa este contrato; a aplicação conhece só
// a interface, nunca o cliente concreto.
type ItemExtractor interface {
	// ExtractItems interpreta o texto e devolve os itens sugeridos. Os valores
	// voltam como texto para conferência antes de virarem itens de rascunho.
	// O contexto deve carregar timeout: a chamada sai para um serviço externo.
	ExtractItems(ctx context.Context, text string) ([]dto.ExtractedItem, error)
}
