// Package handler はコンソールサーバーのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/middleware"
	"github.com/hirearn/admin-console/internal/model"
)

// maxBodySize はリクエストボディの上限（1MB）。
const maxBodySize = 1 << 20

// writeJSON はステータスとJSONボディを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディをデコードする。
// ボディが空の場合はdstをゼロ値のまま返す。
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return model.NewValidationError("body", "リクエストボディの解析に失敗しました")
}

// queryInt はクエリパラメータを整数として読み取る。未指定の場合は0。
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, model.NewValidationError(key, "0以上の整数を指定してください")
	}
	return n, nil
}

// pagination はpageとlimitのクエリパラメータを読み取る。
func pagination(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// handleServiceError はサービス層から返されたエラーをHTTPレスポンスに変換する。
//
// 検証エラーは400、バックエンドのHTTPエラーは同じステータスとバックエンドのメッセージ、
// バックエンドの401はセッション失効としてログイン画面へ誘導し、
// 接続できない場合は502 BACKEND_UNREACHABLEを返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Category == model.CategoryAuth &&
			(apiErr.Code == model.ErrCodeSessionRequired || apiErr.Code == model.ErrCodeSessionExpired) {
			middleware.WriteSessionError(w, apiErr)
			return
		}
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status == http.StatusUnauthorized {
			middleware.WriteSessionError(w, model.NewSessionExpiredError())
			return
		}
		middleware.WriteErrorResponse(w, httpErr.Status, model.NewUpstreamError(httpErr.Message))
		return
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		slog.Warn("backend unreachable", slog.String("url", netErr.URL))
		middleware.WriteErrorResponse(w, http.StatusBadGateway, model.NewBackendUnreachableError(netErr.Error()))
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeNotAdmin, model.ErrCodeDocumentBlocked:
		return http.StatusForbidden
	case model.ErrCodeSessionRequired, model.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case model.ErrCodeBackendUnreachable, model.ErrCodePresignFailed, model.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
