package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/model"
)

func TestParseArgs_InterspersedFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reason := fs.String("reason", "", "")

	positional, err := parseArgs(fs, []string{"u1", "--reason", "spam account", "extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *reason != "spam account" {
		t.Errorf("reason = %q, want %q", *reason, "spam account")
	}
	if want := []string{"u1", "extra"}; !reflect.DeepEqual(positional, want) {
		t.Errorf("positional = %v, want %v", positional, want)
	}
}

func TestParseArgs_UnknownFlagIsValidationError(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	_, err := parseArgs(fs, []string{"--bogus"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequireArg(t *testing.T) {
	if _, err := requireArg(nil, 0, "userId"); err == nil {
		t.Error("expected error for missing argument")
	}
	if _, err := requireArg([]string{"  "}, 0, "userId"); err == nil {
		t.Error("expected error for blank argument")
	}
	got, err := requireArg([]string{"u1"}, 0, "userId")
	if err != nil || got != "u1" {
		t.Errorf("requireArg = (%q, %v), want (u1, nil)", got, err)
	}
}

func TestEmit_JSONAndTable(t *testing.T) {
	var buf bytes.Buffer
	c := &cli{out: &buf}

	if err := c.emit(map[string]int{"n": 1}, func(w io.Writer) { row(w, "A", "B") }); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got := buf.String(); got != "A  B\n" {
		t.Errorf("table output = %q", got)
	}

	buf.Reset()
	c.json = true
	if err := c.emit(map[string]int{"n": 1}, func(w io.Writer) { row(w, "A", "B") }); err != nil {
		t.Fatalf("emit: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded["n"] != 1 {
		t.Errorf("json output = %q", buf.String())
	}
}

func TestRefName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{``, "-"},
		{`null`, "-"},
		{`"job-1"`, "job-1"},
		{`{"id":"job-1","title":"Warehouse shift"}`, "Warehouse shift"},
		{`{"id":"u1","fullName":"Ravi"}`, "Ravi"},
		{`{"id":"u1"}`, "u1"},
	}
	for _, tt := range tests {
		if got := refName(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("refName(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDocumentExt(t *testing.T) {
	tests := []struct {
		url, contentType, want string
	}{
		{"https://cdn.example.com/kyc/front.JPG?sig=1", "", ".jpg"},
		{"https://cdn.example.com/kyc/front", "image/png", ".png"},
		{"https://cdn.example.com/kyc/pan", "application/pdf", ".pdf"},
		{"https://cdn.example.com/kyc/x", "application/octet-stream", ".bin"},
	}
	for _, tt := range tests {
		if got := documentExt(tt.url, tt.contentType); got != tt.want {
			t.Errorf("documentExt(%q, %q) = %q, want %q", tt.url, tt.contentType, got, tt.want)
		}
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantRelogin bool
	}{
		{
			name:        "バリデーションエラー",
			err:         model.NewReasonRequiredError(),
			wantMessage: model.NewReasonRequiredError().Message,
		},
		{
			name:        "セッション未保存",
			err:         model.NewSessionRequiredError(),
			wantMessage: model.NewSessionRequiredError().Message,
			wantRelogin: true,
		},
		{
			name:        "バックエンドの401",
			err:         fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", &api.HTTPError{Status: 401, Message: "Token expired"}),
			wantMessage: "Token expired",
			wantRelogin: true,
		},
		{
			name:        "バックエンドのメッセージを優先",
			err:         fmt.Errorf("wrap: %w", &api.HTTPError{Status: 500, Message: "Database down"}),
			wantMessage: "Database down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if !strings.HasPrefix(got, "error: "+tt.wantMessage) {
				t.Errorf("FormatError() = %q, want prefix %q", got, "error: "+tt.wantMessage)
			}
			if strings.Contains(got, "hirearn-admin login") != tt.wantRelogin {
				t.Errorf("FormatError() = %q, relogin hint expected %v", got, tt.wantRelogin)
			}
			if strings.Contains(got, "\n") {
				t.Errorf("FormatError() should be a single line, got %q", got)
			}
		})
	}
}
