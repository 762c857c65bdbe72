package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
)

// respondError mapeia erros de domínio para status HTTP e corpo padronizado.
// Transição inválida e pré-condição violada viram 409: o estado do recurso
// mudou em relação ao que o cliente viu.
func respondError(c *fiber.Ctx, err error) error {
	var transErr *domain.InvalidTransitionError
	var preErr *domain.PreconditionError

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProducerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrDraftNotEditable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_EDITABLE", Message: err.Error()})
	case errors.As(err, &transErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: transErr.Error()})
	case errors.As(err, &preErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRECONDITION_FAILED", Message: preErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
