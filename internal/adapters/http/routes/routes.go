package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/http/handlers"
	"somity-ledger/internal/adapters/http/middleware"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/config"
	"somity-ledger/internal/core/services"
)

// Services are the application services the HTTP layer exposes
type Services struct {
	Auth          *services.AuthService
	Ledger        *services.LedgerService
	Queue         *services.RequestQueueService
	Balance       *services.BalanceService
	Members       *services.MemberService
	Notices       *services.NoticeService
	Notifications *services.NotificationService
	Settings      *services.SettingsService
	Reports       *services.ReportService
	Audit         *services.AuditService
	Dashboard     *services.DashboardService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, store *repositories.Store, svc *Services, log zerolog.Logger) {
	healthHandler := handlers.NewHealthHandler(store.Health, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	depositHandler := handlers.NewDepositHandler(svc.Queue, svc.Ledger)
	joinHandler := handlers.NewJoinRequestHandler(svc.Queue)
	queueHandler := handlers.NewQueueHandler(svc.Queue, log)
	loanHandler := handlers.NewLoanHandler(svc.Ledger, svc.Balance)
	memberHandler := handlers.NewMemberHandler(svc.Members)
	noticeHandler := handlers.NewNoticeHandler(svc.Notices)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	reportHandler := handlers.NewReportHandler(svc.Reports, svc.Audit)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard, svc.Balance)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(cfg.JWT.Secret)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Public
	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth)
	apiV1.Post("/join-requests", middleware.StrictRateLimiter(), joinHandler.Submit)
	apiV1.Get("/settings/pay", middleware.PublicCache(5*time.Minute), settingsHandler.GetPay)

	// Authenticated
	member := apiV1.Group("", auth)
	setupMemberRoutes(member, dashboardHandler, memberHandler, depositHandler, loanHandler,
		noticeHandler, notificationHandler, settingsHandler)

	// Staff
	admin := apiV1.Group("/admin", auth, middleware.StaffOnly(), middleware.NoCacheHeaders())
	setupStaffRoutes(admin, depositHandler, queueHandler, joinHandler, loanHandler,
		memberHandler, noticeHandler, reportHandler, dashboardHandler)

	// Admin only
	setupAdminRoutes(admin, memberHandler, noticeHandler, settingsHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)

	router.Post("/logout", auth, handler.Logout)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupMemberRoutes configures routes open to any signed-in account
func setupMemberRoutes(
	router fiber.Router,
	dashboard *handlers.DashboardHandler,
	members *handlers.MemberHandler,
	deposits *handlers.DepositHandler,
	loans *handlers.LoanHandler,
	notices *handlers.NoticeHandler,
	notifications *handlers.NotificationHandler,
	settings *handlers.SettingsHandler,
) {
	me := router.Group("/me", middleware.NoCacheHeaders())
	me.Get("/", dashboard.GetMyDashboard)
	me.Put("/", members.UpdateMyProfile)
	me.Put("/password", members.ChangePassword)
	me.Get("/deposits", deposits.ListMine)
	me.Get("/loans", loans.ListMine)

	router.Post("/deposits", deposits.Submit)

	router.Get("/notifications", middleware.NoCacheHeaders(), notifications.ListMine)
	router.Post("/notifications/read", notifications.MarkAllRead)

	router.Get("/notices", middleware.PrivateCacheHeaders(time.Minute), notices.List)
	router.Get("/notices/latest", middleware.PrivateCacheHeaders(time.Minute), notices.Latest)

	router.Get("/settings/collection", settings.GetCollection)
}

// setupStaffRoutes configures admin and cashier routes
func setupStaffRoutes(
	router fiber.Router,
	deposits *handlers.DepositHandler,
	queue *handlers.QueueHandler,
	joins *handlers.JoinRequestHandler,
	loans *handlers.LoanHandler,
	members *handlers.MemberHandler,
	notices *handlers.NoticeHandler,
	reports *handlers.ReportHandler,
	dashboard *handlers.DashboardHandler,
) {
	router.Get("/dashboard", dashboard.GetAdminDashboard)
	router.Get("/summary", dashboard.GetSummary)

	router.Get("/deposits/pending", deposits.ListPending)
	router.Post("/deposits/direct", deposits.Direct)
	router.Post("/deposits/:id/approve", deposits.Approve)
	router.Post("/deposits/:id/reject", deposits.Reject)

	router.Get("/queue/stream", queue.Stream)

	router.Get("/join-requests", joins.ListPending)
	router.Post("/join-requests/:id/approve", joins.Approve)
	router.Post("/join-requests/:id/reject", joins.Reject)

	router.Post("/loans", loans.Issue)
	router.Get("/loans", loans.ListActive)
	router.Get("/loans/:id", loans.Get)
	router.Post("/loans/:id/repay", loans.Repay)
	router.Get("/loans/:id/repayments", loans.ListRepayments)

	router.Get("/members", members.List)
	router.Post("/members", members.Create)
	router.Get("/members/:id", members.Get)
	router.Get("/members/:id/savings", dashboard.GetMemberSavings)

	router.Post("/notices", notices.Create)

	router.Get("/logs", reports.ListLogs)
	router.Get("/reports/deposits", reports.ExportDeposits)
}

// setupAdminRoutes configures routes reserved for admins
func setupAdminRoutes(
	router fiber.Router,
	members *handlers.MemberHandler,
	notices *handlers.NoticeHandler,
	settings *handlers.SettingsHandler,
) {
	adminOnly := middleware.AdminOnly()

	router.Get("/staff", adminOnly, members.ListStaff)
	router.Post("/staff", adminOnly, members.CreateStaff)
	router.Put("/members/:id/target", adminOnly, members.UpdateTarget)
	router.Put("/members/:id/status", adminOnly, members.SetStatus)
	router.Delete("/notices/:id", adminOnly, notices.Delete)
	router.Put("/settings/pay", adminOnly, settings.PutPay)
	router.Put("/settings/collection", adminOnly, settings.PutCollection)
}
