package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hirearn/admin-console/internal/model"
)

// loginPath はセッションが無効な場合の再ログイン先。
const loginPath = "/login"

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
	// Redirect はセッションエラーの場合の遷移先。
	Redirect string `json:"redirect,omitempty"`
}

func newErrorBody(apiErr *model.APIError) ErrorResponseBody {
	return ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	}
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorResponseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeErrorBody(w, statusCode, newErrorBody(apiErr))
}

// WriteSessionError はログイン画面への誘導を含む401レスポンスを書き込む。
// LocationヘッダーとボディのredirectにloginPathを設定する。
func WriteSessionError(w http.ResponseWriter, apiErr *model.APIError) {
	body := newErrorBody(apiErr)
	body.Redirect = loginPath
	w.Header().Set("Location", loginPath)
	writeErrorBody(w, http.StatusUnauthorized, body)
}

// internalError は詳細を伏せた500レスポンスの内容。詳細はログのみに記録する。
var internalError = &model.APIError{
	Code:     model.ErrCodeInternal,
	Message:  "内部エラーが発生しました。",
	Category: model.CategorySystem,
	Action:   "しばらく待ってから再度お試しください。",
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, internalError)
}
