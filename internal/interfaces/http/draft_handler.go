package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrofiscal/agrofiscal-api/internal/application/draft"
	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
)

// DraftHandler trata as requisições do ciclo de vida do rascunho (protegido).
type DraftHandler struct {
	uc       *draft.UseCase
	finalize *draft.FinalizeUseCase
}

// NewDraftHandler constrói o handler.
func NewDraftHandler(uc *draft.UseCase, finalize *draft.FinalizeUseCase) *DraftHandler {
	return &DraftHandler{uc: uc, finalize: finalize}
}

// Create godoc
// @Summary      Criar rascunho
// @Tags         rascunhos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftRequest  true  "Cabeçalho e itens do rascunho"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rascunhos [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary      Listar rascunhos do produtor
// @Tags         rascunhos
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtra por status (rascunho, enviado, aprovado, revisao_solicitada, rejeitado, finalizado)"
// @Success      200  {array}  dto.DraftResponse
// @Router       /api/rascunhos [get]
func (h *DraftHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(GetUserID(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obter rascunho por ID
// @Tags         rascunhos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do rascunho"
// @Success      200  {object}  dto.DraftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rascunhos/{id} [get]
func (h *DraftHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Params("id"), GetUserID(c), IsReviewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Atualizar rascunho editável
// @Description  Substitui cabeçalho e/ou itens; editar um rascunho devolvido limpa o feedback da revisão.
// @Tags         rascunhos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID do rascunho"
// @Param        body  body  dto.UpdateDraftRequest true  "Campos a substituir"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rascunhos/{id} [put]
func (h *DraftHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Update(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary      Enviar rascunho para revisão
// @Tags         rascunhos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do rascunho"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rascunhos/{id}/enviar [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	resp, err := h.uc.Submit(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Review godoc
// @Summary      Registrar decisão da revisão (contador)
// @Tags         rascunhos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID do rascunho"
// @Param        body  body  dto.ReviewDraftRequest true  "Decisão, feedback e correções"
// @Success      200  {object}  dto.DraftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rascunhos/{id}/revisar [post]
func (h *DraftHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Review(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Finalize godoc
// @Summary      Finalizar rascunho aprovado
// @Description  Emite o documento oficial (número sequencial + chave de acesso) e vincula o rascunho. Não é idempotente.
// @Tags         rascunhos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do rascunho"
// @Success      201  {object}  dto.FinalizeDraftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rascunhos/{id}/finalizar [post]
func (h *DraftHandler) Finalize(c *fiber.Ctx) error {
	resp, err := h.finalize.Finalize(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
