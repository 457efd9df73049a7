package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hirearn/admin-console/internal/middleware"
	"github.com/hirearn/admin-console/internal/session"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Store             session.Store
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRF              middleware.CSRFConfig
	Logger            *slog.Logger
	// Now はセッション有効期限の判定に使う時刻。nilの場合はtime.Now。
	Now func() time.Time

	// Metrics は /metrics で公開するハンドラー。nilの場合は公開しない。
	Metrics http.Handler

	AuthService       AuthServiceInterface
	UserService       UserServiceInterface
	OperationsService OperationsServiceInterface
	AnalyticsService  AnalyticsServiceInterface
	Snapshots         SnapshotProvider
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → SessionGuard → RateLimit(General, Actions) → CSRF
//
// /health と /metrics はセッションとレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	opsHandler := NewOperationsHandler(deps.OperationsService)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService, deps.Snapshots)

	sessionGuard := middleware.NewSessionGuard(deps.Store, deps.Now)
	csrf := middleware.NewCSRFMiddleware(deps.CSRF)

	// --- 認証不要のルート ---

	r.Get("/health", health)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRF))

	// OTPログイン
	r.Route("/auth", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(deps.RateLimiter.ActionsMiddleware())
		r.Use(csrf)

		r.Post("/send-otp", authHandler.SendOTP)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/logout", authHandler.Logout)
		r.With(sessionGuard).Get("/me", authHandler.Me)
	})

	// --- セッションが必要なルート ---
	// ミドルウェアスタック: SessionGuard → RateLimit(General) → RateLimit(Actions) → CSRF
	r.Route("/api", func(r chi.Router) {
		r.Use(sessionGuard)
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(deps.RateLimiter.ActionsMiddleware())
		r.Use(csrf)

		r.Get("/dashboard", opsHandler.DashboardStats)
		r.Get("/payments/summary", opsHandler.PaymentSummary)

		// 分析ダッシュボード
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", analyticsHandler.Snapshot)
			r.Post("/refresh", analyticsHandler.Refresh)
			r.Get("/jobs-detailed", analyticsHandler.JobsDetailed)
			r.Get("/payments-detailed", analyticsHandler.PaymentsDetailed)
			r.Get("/protection-pool", analyticsHandler.ProtectionPool)
			r.Get("/job-timeline/{jobId}", analyticsHandler.JobTimeline)
		})

		// ユーザー管理とKYC審査
		r.Get("/kyc-review", userHandler.ListKYCReview)
		r.Get("/documents/view", userHandler.ViewDocument)
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Get("/documents", userHandler.Documents)
				r.Put("/wallet/{op}", userHandler.ApplyAction)
				r.Put("/{action}", userHandler.ApplyAction)
			})
		})

		// 出金
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", opsHandler.ListWithdrawals)
			r.Post("/{id}/process", opsHandler.ProcessWithdrawal)
			r.Post("/{id}/reject", opsHandler.RejectWithdrawal)
		})

		// 精算
		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", opsHandler.ListSettlements)
			r.Post("/{jobId}/retry", opsHandler.RetrySettlement)
		})

		// 紛争
		r.Route("/disputes", func(r chi.Router) {
			r.Get("/", opsHandler.ListDisputes)
			r.Get("/{id}", opsHandler.GetDispute)
			r.Put("/{id}", opsHandler.UpdateDispute)
		})

		r.Get("/audit", opsHandler.ListAuditLog)
		r.Get("/refunds", opsHandler.ListRefunds)
	})

	return r
}

// health はプロセスの稼働状態を返す。
// GET /health
func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
