// Package assist: extração assistida de itens de rascunho a partir de texto
// livre (nota manuscrita, mensagem do produtor).
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/application/ports"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
)

// UseCase orquestra a extração de itens via LLM. Impõe timeout de 10 s por
// chamada para que latência externa não segure goroutines do servidor.
type UseCase struct {
	extractor ports.ItemExtractor
}

// NewUseCase constrói o caso de uso injetando o porto de extração.
func NewUseCase(extractor ports.ItemExtractor) *UseCase {
	return &UseCase{extractor: extractor}
}

// ExtractItems valida a entrada e delega ao porto de extração.
func (uc *UseCase) ExtractItems(ctx context.Context, in dto.ExtractItemsRequest) (*dto.ExtractItemsResponse, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: texto é obrigatório", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items, err := uc.extractor.ExtractItems(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("extração assistida: %w", err)
	}
	return &dto.ExtractItemsResponse{Items: items}, nil
}
