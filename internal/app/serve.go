package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hirearn/admin-console/internal/config"
	"github.com/hirearn/admin-console/internal/dashboard"
	"github.com/hirearn/admin-console/internal/handler"
	"github.com/hirearn/admin-console/internal/metrics"
	"github.com/hirearn/admin-console/internal/middleware"
	"github.com/hirearn/admin-console/internal/session"
)

// cmdServe はコンソールサーバーを起動し、シグナルを受けるまでリクエストを処理する。
func cmdServe(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("serve")
	ephemeral := fs.Bool("ephemeral", false, "セッションを保存せずプロセス内のメモリに保持する")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *ephemeral && c.cfg.SessionStore != config.SessionStoreMemory {
		// serveの依存関係は保存先を差し替えて作り直す
		c.close()
		cfg := *c.cfg
		cfg.SessionStore = config.SessionStoreMemory
		rebuilt, err := newCLI(ctx, &cfg, c.out, c.logger, true)
		if err != nil {
			return err
		}
		defer rebuilt.close()
		c = rebuilt
	}

	srv, refresher, rl := c.newServer()
	defer rl.Stop()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		refresher.Start(refreshCtx, c.cfg.AnalyticsRefreshInterval)
	}()

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("backend", c.cfg.APIURL),
			slog.String("session_store", storeKind(c.store)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		c.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	}

	// 新規リクエストの受付を停止し、処理中のリクエストの完了を待つ
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancelRefresh()
	<-refreshDone

	c.logger.Info("server stopped")
	return serveErr
}

// newServer はルーターと分析リフレッシュを構成したhttp.Serverを生成する。
func (c *cli) newServer() (*http.Server, *dashboard.Refresher, *middleware.RateLimiter) {
	refresher := dashboard.NewRefresher(dashboard.NewLoader(c.svc), c.logger, c.metrics, nil)
	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(c.cfg.RateLimitGeneral, c.cfg.RateLimitActions))

	deps := &handler.RouterDeps{
		Store:             c.store,
		CORSAllowedOrigin: c.cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		CSRF:              middleware.CSRFConfig{CookieSecure: strings.HasPrefix(c.cfg.CORSAllowedOrigin, "https://")},
		Logger:            c.logger,
		Now:               time.Now,
		AuthService:       c.svc,
		UserService:       c.svc,
		OperationsService: c.svc,
		AnalyticsService:  c.svc,
		Snapshots:         refresher,
	}
	if c.registry != nil {
		deps.Metrics = metrics.Handler(c.registry)
	}

	srv := &http.Server{
		Addr:         ":" + c.cfg.ServerPort,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, refresher, rl
}

// storeKind はログ出力用のセッション保存先の種類を返す。
func storeKind(s session.Store) string {
	switch s.(type) {
	case *session.FileStore:
		return config.SessionStoreFile
	case *session.RedisStore:
		return config.SessionStoreRedis
	default:
		return config.SessionStoreMemory
	}
}
