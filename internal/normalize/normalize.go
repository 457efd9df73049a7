// Package normalize はバックエンドの `_id` 規約をコンソール側の `id` 規約に揃える。
// JSON由来の任意の値を再帰的に走査し、`_id` を持ち `id` を持たないオブジェクトに
// `_id` の文字列表現を `id` として追加する。
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	mongoIDKey = "_id"
	idKey      = "id"
)

// Value はJSON互換の値を正規化した新しい値を返す。
// オブジェクトと配列は常に新しい値として返し、入力は変更しない。
// スカラー値（nilを含む）はそのまま返す。冪等であり、panicしない。
func Value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return object(t)
	case []any:
		return array(t)
	default:
		return v
	}
}

func array(in []any) []any {
	out := make([]any, len(in))
	for i, elem := range in {
		out[i] = Value(elem)
	}
	return out
}

func object(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = Value(v)
	}

	if _, hasID := in[idKey]; hasID {
		return out
	}
	if raw, ok := in[mongoIDKey]; ok {
		if s, ok := stringForm(raw); ok {
			out[idKey] = s
		}
	}
	return out
}

// stringForm は `_id` のスカラー値を文字列に変換する。
// null、オブジェクト、配列（集計のグループキー等）は変換対象外。
func stringForm(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

// Decode はJSONバイト列を数値精度を保ったまま any にデコードする。
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Bytes はJSONドキュメントをデコードして正規化し、再エンコードしたものを返す。
// 型付きのレスポンススキーマへデコードする直前に1回だけ適用する。
func Bytes(raw []byte) ([]byte, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("JSONのデコードに失敗しました: %w", err)
	}
	out, err := json.Marshal(Value(v))
	if err != nil {
		return nil, fmt.Errorf("JSONのエンコードに失敗しました: %w", err)
	}
	return out, nil
}
