package app

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/hirearn/admin-console/internal/model"
)

// printJSON は値をインデント付きJSONで出力する。
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit は --json 指定時はJSONを、それ以外はrenderの表形式を出力する。
func (c *cli) emit(v any, render func(w io.Writer)) error {
	if c.json {
		return c.printJSON(v)
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	render(tw)
	return tw.Flush()
}

// row はタブ区切りの1行を書き込む。
func row(w io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprint(col)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

// kv は「ラベル: 値」の行を書き込む。
func kv(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s:\t%v\n", label, value)
}

// inr はパイサ単位の金額を表示用に整形する。
func inr(paise decimal.Decimal) string {
	return model.FormatINR(paise)
}

// orDash は空文字列を "-" に置き換える。
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// optInt はnilの場合 "-" を返す。
func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(*n)
}

// pageFooter はページング情報を出力する。
func pageFooter(w io.Writer, p model.Page) {
	fmt.Fprintf(w, "\npage %d/%d (total %d)\n", p.CurrentPage, p.TotalPages, p.Total)
}

// flags は共通フラグ --json を登録したFlagSetを生成する。
func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&c.json, "json", false, "JSON形式で出力する")
	return fs
}

// parseArgs はフラグと位置引数が混在した引数を解析し、位置引数を返す。
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, model.NewValidationError("args", err.Error())
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// requireArg はn番目の位置引数を返す。存在しない場合はバリデーションエラー。
func requireArg(positional []string, n int, name string) (string, error) {
	if n >= len(positional) || strings.TrimSpace(positional[n]) == "" {
		return "", model.NewValidationError(name, name+" is required")
	}
	return positional[n], nil
}
