package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrofiscal/agrofiscal-api/internal/application/agenda"
	"github.com/agrofiscal/agrofiscal-api/internal/application/assist"
	appdoc "github.com/agrofiscal/agrofiscal-api/internal/application/document"
	"github.com/agrofiscal/agrofiscal-api/internal/application/draft"
	"github.com/agrofiscal/agrofiscal-api/internal/application/ports"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
	infraai "github.com/agrofiscal/agrofiscal-api/internal/infrastructure/ai"
	"github.com/agrofiscal/agrofiscal-api/internal/infrastructure/notify"
	infrapdf "github.com/agrofiscal/agrofiscal-api/internal/infrastructure/pdf"
	"github.com/agrofiscal/agrofiscal-api/internal/infrastructure/postgres"
	infraxml "github.com/agrofiscal/agrofiscal-api/internal/infrastructure/xml"
	httpRouter "github.com/agrofiscal/agrofiscal-api/internal/interfaces/http"
	"github.com/agrofiscal/agrofiscal-api/pkg/config"
	"github.com/agrofiscal/agrofiscal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	producerRepo := postgres.NewProducerRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Canal de lembretes: só habilitado com webhook configurado.
	var notifier ports.ReminderNotifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
	}

	scheduleUC := agenda.NewScheduleUseCase(
		producerRepo,
		fiscal.DefaultCatalog(),
		notifier,
		log,
		cfg.Agenda.DefaultWindowDays,
		cfg.Agenda.DefaultLeadDays,
	)

	draftUC := draft.NewUseCase(txRunner, draftRepo, producerRepo, log)
	finalizeUC := draft.NewFinalizeUseCase(txRunner, producerRepo, draft.EmissionConfig{
		Model:        cfg.NFe.Model,
		Series:       cfg.NFe.Series,
		EmissionType: cfg.NFe.EmissionType,
	}, log)

	documentUC := appdoc.NewUseCase(
		documentRepo,
		producerRepo,
		infrapdf.NewMarotoDANFEGenerator(),
		infraxml.NewNFeBuilder(),
	)

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	assistUC := assist.NewUseCase(anthropicSvc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AgroFiscal API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ScheduleUC: scheduleUC,
		DraftUC:    draftUC,
		FinalizeUC: finalizeUC,
		DocumentUC: documentUC,
		AssistUC:   assistUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
