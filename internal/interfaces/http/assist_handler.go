package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrofiscal/agrofiscal-api/internal/application/assist"
	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
)

// AssistHandler expõe a extração assistida de itens a partir de texto livre.
type AssistHandler struct {
	uc *assist.UseCase
}

// NewAssistHandler constrói o handler de assistência.
func NewAssistHandler(uc *assist.UseCase) *AssistHandler {
	return &AssistHandler{uc: uc}
}

// ExtractItems godoc
// @Summary      Extrair itens de texto livre
// @Description  Converte a descrição em linguagem natural de uma operação em itens estruturados prontos para preencher um rascunho.
// @Tags         assistente
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExtractItemsRequest  true  "Texto livre da operação"
// @Success      200  {object}  dto.ExtractItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assistente/itens [post]
func (h *AssistHandler) ExtractItems(c *fiber.Ctx) error {
	var in dto.ExtractItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.ExtractItems(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
