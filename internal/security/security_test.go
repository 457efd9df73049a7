package security

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestSanitize_StripsMarkup はタグが除去され平文のみが残ることを検証する。
func TestSanitize_StripsMarkup(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"平文はそのまま", "Documents verified", "Documents verified"},
		{"前後の空白を除去", "  blurry selfie \n", "blurry selfie"},
		{"scriptタグを除去", `<script>alert(1)</script>fraud suspected`, "fraud suspected"},
		{"インラインタグを除去", "<b>duplicate</b> PAN", "duplicate PAN"},
		{"記号は元の文字のまま", "name & DOB mismatch", "name & DOB mismatch"},
		{"空白のみは空文字列", "   ", ""},
		{"空文字列", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して同一出力を返すことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()
	input := `<img src=x onerror=alert(1)>wallet <i>frozen</i> for review`

	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)
	if first != second {
		t.Errorf("冪等でない: %q -> %q", first, second)
	}
	if strings.Contains(first, "<") {
		t.Errorf("タグが残っている: %q", first)
	}
}

// TestTextSanitizerInterface はインターフェースを実装していることを検証する。
func TestTextSanitizerInterface(t *testing.T) {
	var _ TextSanitizerService = NewTextSanitizer()
}

// TestClassify は書類URLの種別判定を検証する。
func TestClassify(t *testing.T) {
	guard := NewDocumentGuard(5*time.Second, 1024)

	tests := []struct {
		url  string
		want DocumentKind
	}{
		{"", DocumentEmpty},
		{"/uploads/kyc/selfie.jpg", DocumentRelative},
		{"uploads/kyc/selfie.jpg", DocumentRelative},
		{"https://hirearn-kyc.s3.ap-south-1.amazonaws.com/u1/pan.jpg", DocumentS3},
		{"https://cdn.example.com/pan.jpg", DocumentPublic},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := guard.Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestValidateURL_PublicURL は公開URLの検証が成功することをテストする。
func TestValidateURL_PublicURL(t *testing.T) {
	guard := NewDocumentGuard(5*time.Second, 1024)

	for _, u := range []string{
		"https://hirearn-kyc.s3.ap-south-1.amazonaws.com/u1/pan.jpg?X-Amz-Signature=abc",
		"http://cdn.example.org/selfie.png",
	} {
		if err := guard.ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) returned error: %v", u, err)
		}
	}
}

// TestValidateURL_Blocked はプライベート・ループバック・メタデータIPと不正なURLの拒否をテストする。
func TestValidateURL_Blocked(t *testing.T) {
	guard := NewDocumentGuard(5*time.Second, 1024)

	for _, u := range []string{
		"",
		"not-a-url",
		"ftp://example.com/doc",
		"file:///etc/passwd",
		"http://10.0.0.1/doc",
		"http://172.16.0.1/doc",
		"http://192.168.1.100/doc",
		"http://127.0.0.1/doc",
		"http://localhost/doc",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/doc",
		"http://0.0.0.0/doc",
	} {
		t.Run(u, func(t *testing.T) {
			if err := guard.ValidateURL(u); err == nil {
				t.Errorf("ValidateURL(%q) should have returned error", u)
			}
		})
	}
}

// TestFetch_BlocksLoopback はループバックのURLが取得前に拒否されることをテストする。
func TestFetch_BlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("ループバックへのリクエストが送信された")
	}))
	defer ts.Close()

	guard := NewDocumentGuard(5*time.Second, 1024)
	if _, err := guard.Fetch(context.Background(), ts.URL+"/doc.jpg"); err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

// TestSafeClient_BlocksLoopbackAtDial はDialerレベルでもループバックが拒否されることをテストする。
func TestSafeClient_BlocksLoopbackAtDial(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := newSafeClient(5 * time.Second)
	if client.Transport == nil || client.Transport == http.DefaultTransport {
		t.Fatal("expected custom Transport")
	}
	if _, err := client.Get(ts.URL); err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

// TestDownload_SizeLimit は上限サイズの判定を検証する。
func TestDownload_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer ts.Close()

	guard := &documentGuard{client: ts.Client(), maxSize: 16}
	doc, err := guard.download(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("download がエラーを返した: %v", err)
	}
	if doc.ContentType != "image/jpeg" || len(doc.Data) != 16 {
		t.Errorf("Document = %s, %d bytes", doc.ContentType, len(doc.Data))
	}

	guard.maxSize = 15
	if _, err := guard.download(context.Background(), ts.URL); !errors.Is(err, ErrDocumentTooLarge) {
		t.Errorf("err = %v, want ErrDocumentTooLarge", err)
	}
}

// TestDownload_NonOKStatus は200以外の応答がエラーになることを検証する。
func TestDownload_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	guard := &documentGuard{client: ts.Client(), maxSize: 1024}
	if _, err := guard.download(context.Background(), ts.URL); err == nil {
		t.Error("403 でエラーが返されなかった")
	}
}

// TestDocumentGuardInterface はインターフェースを実装していることを検証する。
func TestDocumentGuardInterface(t *testing.T) {
	var _ DocumentGuardService = NewDocumentGuard(time.Second, 1)
}
