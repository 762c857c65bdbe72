package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrofiscal/agrofiscal-api/internal/application/agenda"
	"github.com/agrofiscal/agrofiscal-api/internal/application/assist"
	appdoc "github.com/agrofiscal/agrofiscal-api/internal/application/document"
	"github.com/agrofiscal/agrofiscal-api/internal/application/draft"
	"github.com/agrofiscal/agrofiscal-api/pkg/jwt"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	ScheduleUC *agenda.ScheduleUseCase
	DraftUC    *draft.UseCase
	FinalizeUC *draft.FinalizeUseCase
	DocumentUC *appdoc.UseCase
	AssistUC   *assist.UseCase
	JWTSecret  string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rotas protegidas (requerem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Agenda de obrigações (protegido)
	schedule := protected.Group("/agenda")
	scheduleHandler := NewScheduleHandler(deps.ScheduleUC)
	schedule.Get("/ocorrencias", scheduleHandler.Occurrences)
	schedule.Get("/lembretes", scheduleHandler.Reminders)
	schedule.Post("/lembretes/despachar", scheduleHandler.Dispatch)

	// Rascunhos (protegido)
	drafts := protected.Group("/rascunhos")
	draftHandler := NewDraftHandler(deps.DraftUC, deps.FinalizeUC)
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/", draftHandler.List)
	drafts.Get("/:id", draftHandler.GetByID)
	drafts.Put("/:id", draftHandler.Update)
	drafts.Post("/:id/enviar", draftHandler.Submit)
	drafts.Post("/:id/revisar", RequireRole(jwt.RoleContador), draftHandler.Review)
	drafts.Post("/:id/finalizar", draftHandler.Finalize)

	// Documentos fiscais (protegido)
	documents := protected.Group("/documentos")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.FinalizeUC)
	documents.Post("/", documentHandler.CreateDirect)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Get("/:id/pdf", documentHandler.DownloadPDF)
	documents.Get("/:id/xml", documentHandler.DownloadXML)

	// Assistente de preenchimento (protegido)
	assistGroup := protected.Group("/assistente")
	assistHandler := NewAssistHandler(deps.AssistUC)
	assistGroup.Post("/itens", assistHandler.ExtractItems)
}
