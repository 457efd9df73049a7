// Package api はバックエンドREST APIへのリクエストクライアントを提供する。
// ベアラートークンの付与、JSONのパースと `_id` の正規化、
// 2xx以外の応答の型付きエラーへの変換、401応答時のセッション破棄を担う。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirearn/admin-console/internal/metrics"
	"github.com/hirearn/admin-console/internal/normalize"
	"github.com/hirearn/admin-console/internal/session"
)

const (
	// DefaultBaseURL は環境変数が未設定の場合のバックエンドURL。
	DefaultBaseURL = "https://api-hirearn.onrender.com/api"

	headerRequestID = "X-Request-Id"
	contentTypeJSON = "application/json"
	userAgent       = "hirearn-admin/1.0"
)

// UnauthorizedHandler は401応答でセッションを破棄した後に呼ばれる。
// ブラウザ版のログイン画面への強制遷移に相当する。
type UnauthorizedHandler func(ctx context.Context, req Request)

// Client はバックエンドAPIのクライアント。
// リクエストごとにStoreからトークンを読み直し、ヘッダーを個別に構築する。
// 再試行・キャッシュは行わない。
type Client struct {
	httpClient     *http.Client
	baseURL        string
	store          session.Store
	logger         *slog.Logger
	metrics        metrics.MetricsCollector
	onUnauthorized UnauthorizedHandler
}

// Option はClientの任意設定。
type Option func(*Client)

// WithHTTPClient は使用するhttp.Clientを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger はロガーを設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics はメトリクスコレクタを設定する。
func WithMetrics(m metrics.MetricsCollector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUnauthorizedHandler は401応答時のハンドラーを設定する。
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLが空の場合はDefaultBaseURLを使用する。
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		logger:     slog.Default(),
		metrics:    metrics.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL はバックエンドのベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store はセッションの保存先を返す。
func (c *Client) Store() session.Store {
	return c.store
}

// Request は1回のバックエンド呼び出しを表す。
type Request struct {
	Method string
	// Path はベースURLからの相対パス（例: /admin/users）。
	Path   string
	Query  url.Values
	Header http.Header
	// Body はJSONとして送信する値。io.Readerの場合はそのまま送信する。
	Body any
	// Multipart がtrueの場合はContent-Typeを既定のJSONにしない（呼び出し元がboundary付きで指定する）。
	Multipart bool
}

// Response はパースと正規化を済ませたバックエンドの応答。
type Response struct {
	StatusCode int
	Header     http.Header
	// Raw は正規化済みのJSONドキュメント。
	Raw []byte
}

// Decode は正規化済みドキュメントを任意の型にデコードする。
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("レスポンスのデコードに失敗しました: %w", err)
	}
	return nil
}

// Value は正規化済みドキュメントを any として返す。
func (r *Response) Value() (any, error) {
	return normalize.Decode(r.Raw)
}

// Do はリクエストを1回だけ実行する。
// 2xx以外は *HTTPError、接続失敗は *NetworkError を返す。
// 401の場合はエラーを返す前にセッションを破棄し、UnauthorizedHandlerを呼び出す。
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq, req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordNetworkError()
		c.logger.Error("バックエンドへの接続に失敗しました",
			slog.String("method", method),
			slog.String("url", target),
			slog.String("error", err.Error()),
		)
		return nil, &NetworkError{URL: target, BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordNetworkError()
		return nil, &NetworkError{URL: target, BaseURL: c.baseURL, Err: err}
	}
	duration := time.Since(start)
	c.metrics.RecordBackendRequest(method, resp.StatusCode, duration)

	raw, parsed := parseBody(text)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := newHTTPError(resp.StatusCode, parsed)
		c.logger.Warn("バックエンドがエラーステータスを返しました",
			slog.String("method", method),
			slog.String("path", req.Path),
			slog.Int("http_status", resp.StatusCode),
			slog.String("message", httpErr.Message),
			slog.String("request_id", httpReq.Header.Get(headerRequestID)),
		)
		if resp.StatusCode == http.StatusUnauthorized {
			c.expireSession(ctx, req)
		}
		return nil, httpErr
	}

	c.logger.Debug("backend request completed",
		slog.String("method", method),
		slog.String("path", req.Path),
		slog.Int("http_status", resp.StatusCode),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Raw: raw}, nil
}

// Get はGETリクエストを実行してdstにデコードする。dstがnilの場合はデコードしない。
func (c *Client) Get(ctx context.Context, path string, query url.Values, dst any) error {
	return c.call(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, dst)
}

// Post はPOSTリクエストを実行してdstにデコードする。
func (c *Client) Post(ctx context.Context, path string, body, dst any) error {
	return c.call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, dst)
}

// Put はPUTリクエストを実行してdstにデコードする。
func (c *Client) Put(ctx context.Context, path string, body, dst any) error {
	return c.call(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, dst)
}

func (c *Client) call(ctx context.Context, req Request, dst any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	return resp.Decode(dst)
}

// expireSession は401応答時にセッションを破棄し、ハンドラーを呼び出す。
func (c *Client) expireSession(ctx context.Context, req Request) {
	c.metrics.RecordSessionExpired()
	// 呼び出し元のキャンセルに関わらずトークンは必ず破棄する
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("セッションの破棄に失敗しました", slog.String("error", err.Error()))
	}
	c.logger.Warn("セッションの有効期限が切れました。再ログインが必要です", slog.String("path", req.Path))
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx, req)
	}
}

// buildURL はベースURLとパス、クエリパラメータからリクエストURLを組み立てる。
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("リクエストURLのパースに失敗しました: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// setHeaders は呼び出し元のヘッダーに既定値と認証ヘッダーをマージする。
func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, req Request) error {
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	if httpReq.Header.Get("Content-Type") == "" && !req.Multipart {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", contentTypeJSON)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if httpReq.Header.Get(headerRequestID) == "" {
		httpReq.Header.Set(headerRequestID, uuid.NewString())
	}

	token, err := c.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("セッショントークンの読み取りに失敗しました: %w", err)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// encodeBody はリクエストボディをJSONにエンコードする。io.Readerはそのまま使う。
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("リクエストボディのエンコードに失敗しました: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// parseBody はレスポンスボディをJSONとしてパースし、正規化する。
// 空のボディは {}、JSONでないテキストは {"raw": text} として扱う。
func parseBody(text []byte) ([]byte, any) {
	var parsed any
	if len(bytes.TrimSpace(text)) == 0 {
		parsed = map[string]any{}
	} else if v, err := normalize.Decode(text); err == nil {
		parsed = normalize.Value(v)
	} else {
		parsed = map[string]any{"raw": string(text)}
	}

	raw, err := json.Marshal(parsed)
	if err != nil {
		// JSON由来の値は必ずエンコードできる
		raw = []byte("{}")
	}
	return raw, parsed
}
