package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrofiscal/agrofiscal-api/internal/application/agenda"
	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
)

// ScheduleHandler expõe a agenda de obrigações do produtor autenticado.
type ScheduleHandler struct {
	uc *agenda.ScheduleUseCase
}

// NewScheduleHandler constrói o handler da agenda.
func NewScheduleHandler(uc *agenda.ScheduleUseCase) *ScheduleHandler {
	return &ScheduleHandler{uc: uc}
}

// Occurrences godoc
// @Summary      Agenda de vencimentos na janela
// @Tags         agenda
// @Security     Bearer
// @Produce      json
// @Param        janela_dias  query  int  false  "Janela em dias (padrão configurado)"
// @Success      200  {array}  dto.OccurrenceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/agenda/ocorrencias [get]
func (h *ScheduleHandler) Occurrences(c *fiber.Ctx) error {
	resp, err := h.uc.Occurrences(GetUserID(c), c.QueryInt("janela_dias", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Reminders godoc
// @Summary      Lembretes futuros da agenda
// @Tags         agenda
// @Security     Bearer
// @Produce      json
// @Param        janela_dias   query  string  false  "Janela em dias (padrão configurado)"
// @Param        antecedencias query  string  false  "Antecedências em dias, separadas por vírgula (ex: 7,3,1)"
// @Success      200  {array}  dto.ReminderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/agenda/lembretes [get]
func (h *ScheduleHandler) Reminders(c *fiber.Ctx) error {
	leadDays, err := parseLeadDays(c.Query("antecedencias"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "antecedencias deve ser lista de inteiros positivos separados por vírgula",
		})
	}
	resp, err := h.uc.Reminders(GetUserID(c), c.QueryInt("janela_dias", 0), leadDays)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Dispatch godoc
// @Summary      Despachar lembretes das próximas 24h
// @Description  Gatilho externo: envia pelo canal configurado os lembretes cujo instante de notificação cai nas próximas 24h.
// @Tags         agenda
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DispatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/agenda/lembretes/despachar [post]
func (h *ScheduleHandler) Dispatch(c *fiber.Ctx) error {
	resp, err := h.uc.Dispatch(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func parseLeadDays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, strconv.ErrSyntax
		}
		out = append(out, n)
	}
	return out, nil
}
