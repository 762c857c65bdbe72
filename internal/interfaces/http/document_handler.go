package http

import (
	"github.com/gofiber/fiber/v2"

	appdoc "github.com/agrofiscal/agrofiscal-api/internal/application/document"
	"github.com/agrofiscal/agrofiscal-api/internal/application/draft"
	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
)

// DocumentHandler trata consulta e emissão direta de documentos fiscais.
type DocumentHandler struct {
	uc       *appdoc.UseCase
	finalize *draft.FinalizeUseCase
}

// NewDocumentHandler constrói o handler de documentos.
func NewDocumentHandler(uc *appdoc.UseCase, finalize *draft.FinalizeUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, finalize: finalize}
}

// CreateDirect godoc
// @Summary      Emitir documento direto
// @Description  Emite sem passar pela revisão; validação idêntica à do envio de rascunho.
// @Tags         documentos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Cabeçalho e itens do documento"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documentos [post]
func (h *DocumentHandler) CreateDirect(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.finalize.CreateDirect(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary      Listar documentos do produtor
// @Tags         documentos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documentos [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obter documento por ID
// @Tags         documentos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Params("id"), GetUserID(c), IsReviewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// DownloadPDF godoc
// @Summary      Baixar DANFE simplificado em PDF
// @Tags         documentos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID do documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{id}/pdf [get]
func (h *DocumentHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.DownloadPDF(c.Context(), c.Params("id"), GetUserID(c), IsReviewer(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// DownloadXML godoc
// @Summary      Baixar XML da NF-e
// @Tags         documentos
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID do documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{id}/xml [get]
func (h *DocumentHandler) DownloadXML(c *fiber.Ctx) error {
	data, filename, err := h.uc.DownloadXML(c.Params("id"), GetUserID(c), IsReviewer(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
