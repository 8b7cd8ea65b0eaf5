package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"somity-ledger/internal/adapters/http/middleware"
	"somity-ledger/internal/adapters/http/routes"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/adapters/storage/gcs"
	"somity-ledger/internal/config"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/logger"

	_ "somity-ledger/docs" // Swagger docs
)

// @title Somity Ledger API
// @version 1.0
// @description Savings deposits, loans and member requests of a somity

// @contact.name API Support

// @BasePath /
// @schemes https http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	log := logger.ForMode(cfg.AppMode, cfg.LogLevel)

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	store, err := config.OpenStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open store")
	}
	defer config.CloseDatabase()

	if err := config.NewSeeder(store, cfg.Seed, log).Run(context.Background()); err != nil {
		log.Warn().Err(err).Msg("⚠️ Seeding failed")
	}

	dispatcher := services.NewNotificationDispatcher(log, cfg.Notify.BufferSize, notificationChannels(cfg, log)...)
	defer dispatcher.Close()

	hub := services.NewQueueHub(store.Deposits, store.JoinRequests, log)
	defer hub.Close()

	var uploader services.ReportUploader
	if cfg.Report.Bucket != "" {
		u, err := gcs.NewUploader(context.Background(), cfg.Report.Bucket, cfg.Report.Prefix)
		if err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Report.Bucket).Msg("❌ Failed to create report uploader")
		}
		defer u.Close()
		uploader = u
	}

	svc := buildServices(cfg, store, dispatcher, hub, uploader, log)

	cronService := services.NewCronService(cfg.Cron.CollectionReminder, store, svc.Settings, svc.Auth, dispatcher, log)
	if err := cronService.Start(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start cron")
	}
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Somity Ledger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, cfg, store, svc, log)

	go gracefulShutdown(app, hub, log)

	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Str("store", cfg.StoreDriver).Msg("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Server stopped with error")
	}
}

func buildServices(
	cfg *config.Config,
	store *repositories.Store,
	notifier services.Notifier,
	hub *services.QueueHub,
	uploader services.ReportUploader,
	log zerolog.Logger,
) *routes.Services {
	return &routes.Services{
		Auth:          services.NewAuthService(store.Members, store.RefreshTokens, cfg.JWT, log),
		Ledger:        services.NewLedgerService(store.Ledger, notifier, hub, log),
		Queue:         services.NewRequestQueueService(store, hub, log),
		Balance:       services.NewBalanceService(store.Members, store.Loans),
		Members:       services.NewMemberService(store, log),
		Notices:       services.NewNoticeService(store.Notices, store.AuditLogs, log),
		Notifications: services.NewNotificationService(store.Notifications, log),
		Settings:      services.NewSettingsService(store.Settings, log),
		Reports:       services.NewReportService(store.Deposits, uploader, log),
		Audit:         services.NewAuditService(store.AuditLogs),
		Dashboard:     services.NewDashboardService(store),
	}
}

// notificationChannels returns the configured delivery channels; in-app
// notifications are written by the ledger itself and need no channel
func notificationChannels(cfg *config.Config, log zerolog.Logger) []services.Channel {
	var channels []services.Channel
	if cfg.Notify.PushEnabled() {
		channels = append(channels, services.NewPushChannel(cfg.Notify.PushGatewayURL, cfg.Notify.PushToken))
	}
	if cfg.Notify.EmailEnabled() {
		channels = append(channels, services.NewEmailChannel(services.SMTPSettings{
			Host:     cfg.Notify.SMTPHost,
			Port:     cfg.Notify.SMTPPort,
			Username: cfg.Notify.SMTPUser,
			Password: cfg.Notify.SMTPPass,
			From:     cfg.Notify.SMTPFrom,
		}, cfg.Notify.AdminEmail, domain.EventDepositApproved, domain.EventDirectDeposit, domain.EventLoanRepayment))
	}
	if len(channels) == 0 {
		log.Warn().Msg("no notification channel configured, only in-app notifications are kept")
	}
	return channels
}

// gracefulShutdown ends SSE watchers first so Shutdown does not wait on open streams
func gracefulShutdown(app *fiber.App, hub *services.QueueHub, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")
	hub.Close()
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.Error().Err(err).Msg("❌ Error during shutdown")
	}
	log.Info().Msg("✅ Server stopped gracefully")
}
