// Package admin はバックエンドの管理APIをエンドポイントごとの関数として提供する。
//
// 各関数はネットワーク呼び出しの前に入力を検証し、検証エラーは
// Category "validation" の *model.APIError として返す。
// バックエンドのエラーは *api.HTTPError / *api.NetworkError をラップして返す。
package admin

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/security"
)

var (
	// ErrNotAdmin はOTP認証に成功したが管理者権限を持たないアカウントの場合に返される。
	ErrNotAdmin = model.NewNotAdminError()
	// ErrPresignFailed は署名付きURLの発行応答が不完全な場合に返される。
	ErrPresignFailed = model.NewPresignFailedError()
)

// Service は管理APIのサービス層。
type Service struct {
	client    *api.Client
	sanitizer security.TextSanitizerService
	documents security.DocumentGuardService
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	client *api.Client,
	sanitizer security.TextSanitizerService,
	documents security.DocumentGuardService,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		sanitizer: sanitizer,
		documents: documents,
		logger:    logger,
	}
}

// Client は内部のリクエストクライアントを返す。
func (s *Service) Client() *api.Client {
	return s.client
}

// reason は監査理由をサニタイズし、空の場合は検証エラーを返す。
func (s *Service) reason(raw string) (string, error) {
	r := s.sanitizer.Sanitize(raw)
	if r == "" {
		return "", model.NewReasonRequiredError()
	}
	return r, nil
}

// requireID はパスに埋め込むIDを検証してエスケープする。
func requireID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", model.NewValidationError(field, "IDが指定されていません")
	}
	return url.PathEscape(id), nil
}

// query はクエリパラメータを組み立てる。空の値は送信しない。
type query struct {
	values url.Values
	// dropAll がtrueの場合は "all" を未指定として扱う。
	dropAll bool
}

func newQuery(dropAll bool) *query {
	return &query{values: url.Values{}, dropAll: dropAll}
}

func (q *query) str(key, v string) *query {
	if v == "" || (q.dropAll && v == "all") {
		return q
	}
	q.values.Set(key, v)
	return q
}

func (q *query) num(key string, n int) *query {
	if n > 0 {
		q.values.Set(key, strconv.Itoa(n))
	}
	return q
}

func (q *query) encode() url.Values {
	return q.values
}
