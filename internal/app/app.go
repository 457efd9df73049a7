// Package app はサブコマンドの解析と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/config"
	"github.com/hirearn/admin-console/internal/logger"
	"github.com/hirearn/admin-console/internal/metrics"
	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/security"
	"github.com/hirearn/admin-console/internal/session"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, "info", "json")

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定のレベルと形式で再セットアップ
	logger.SetupDefault(w, cfg.LogLevel, cfg.LogFormat)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応する処理を実行する。
// argsにはos.Args[1:]を渡す。コマンドの出力はwに、ログは標準エラー出力に書き込む。
func Run(w io.Writer, args []string) error {
	return run(w, os.Stderr, args)
}

func run(stdout, stderr io.Writer, args []string) error {
	cmd, ok := ParseCommand(args)
	if !ok {
		return fmt.Errorf("unknown command %q (hirearn-admin help でコマンド一覧を表示)", args[0])
	}
	if len(args) > 0 {
		args = args[1:]
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}
	if cmd == CommandHelp {
		return cmdHelp(context.Background(), &cli{out: stdout}, args)
	}

	cfg, err := Init(stderr)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := newCLI(ctx, cfg, stdout, slog.Default(), cmd == CommandServe)
	if err != nil {
		return err
	}
	defer c.close()

	spec := commands[cmd]
	if spec.needsSession {
		authenticated, err := c.svc.IsAuthenticated(ctx)
		if err != nil {
			return err
		}
		if !authenticated {
			return model.NewSessionRequiredError()
		}
	}

	return spec.run(ctx, c, args)
}

// cli はサブコマンドの実行に必要な依存関係をまとめた構造体。
type cli struct {
	cfg     *config.Config
	out     io.Writer
	logger  *slog.Logger
	store   session.Store
	svc     *admin.Service
	metrics metrics.MetricsCollector
	// registry はserve時のみ設定されるPrometheusレジストリ。
	registry *prometheus.Registry
	// json がtrueの場合は表形式ではなくJSONで出力する。
	json bool

	closers []func() error
}

// newCLI は設定から依存関係を構築する。
// withMetricsがtrueの場合はPrometheusのCollectorを登録する。
func newCLI(ctx context.Context, cfg *config.Config, out io.Writer, log *slog.Logger, withMetrics bool) (*cli, error) {
	c := &cli{cfg: cfg, out: out, logger: log, metrics: metrics.Noop{}}

	store, err := c.openStore(ctx)
	if err != nil {
		c.close()
		return nil, err
	}
	c.store = store

	if withMetrics {
		c.registry = prometheus.NewRegistry()
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.metrics = metrics.NewCollector(c.registry)
	}

	client := api.NewClient(cfg.APIURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(log),
		api.WithMetrics(c.metrics),
		api.WithUnauthorizedHandler(func(ctx context.Context, req api.Request) {
			log.Warn("セッションの有効期限が切れたため破棄しました", slog.String("path", req.Path))
		}),
	)
	c.svc = admin.NewService(client,
		security.NewTextSanitizer(),
		security.NewDocumentGuard(cfg.DocumentTimeout, cfg.DocumentMaxSize),
		log,
	)
	return c, nil
}

// openStore は設定に応じたセッションの保存先を開く。
func (c *cli) openStore(ctx context.Context) (session.Store, error) {
	switch c.cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(""), nil
	case config.SessionStoreRedis:
		client, err := session.OpenRedis(ctx, c.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		return session.NewRedisStore(client, c.cfg.RedisKeyPrefix), nil
	default:
		path := c.cfg.SessionFile
		if path == "" {
			p, err := session.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve session file: %w", err)
			}
			path = p
		}
		return session.NewFileStore(path), nil
	}
}

// close は開いたリソースを解放する。
func (c *cli) close() {
	for _, fn := range c.closers {
		if err := fn(); err != nil && !errors.Is(err, redis.ErrClosed) {
			c.logger.Warn("failed to close resource", slog.String("error", err.Error()))
		}
	}
	c.closers = nil
}

// FormatError はコマンドのエラーを標準エラー出力向けの1行にする。
// セッションが失効または未保存の場合は再ログインを促す。
func FormatError(err error) string {
	msg := api.Message(err)
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}

	if sessionLost(err) {
		msg += " hirearn-admin login で再度ログインしてください。"
	}
	return "error: " + msg
}

// sessionLost はセッションの再取得が必要なエラーかを返す。
func sessionLost(err error) bool {
	if api.IsUnauthorized(err) {
		return true
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == model.ErrCodeSessionRequired || apiErr.Code == model.ErrCodeSessionExpired
	}
	return false
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
