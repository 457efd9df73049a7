package security

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// ErrDocumentTooLarge はダウンロードした書類が上限サイズを超えた場合のエラー。
var ErrDocumentTooLarge = errors.New("document exceeds maximum size")

// DocumentKind はKYC書類URLの種別。
type DocumentKind int

const (
	// DocumentEmpty はURLが未設定。
	DocumentEmpty DocumentKind = iota
	// DocumentRelative はバックエンドにローカル保存された書類の相対パス。
	DocumentRelative
	// DocumentS3 は閲覧に署名付きURLが必要なS3オブジェクト。
	DocumentS3
	// DocumentPublic はそのまま閲覧できる公開URL。
	DocumentPublic
)

// DocumentGuardService はKYC書類URLの検証と安全な取得機能のインターフェースを定義する。
type DocumentGuardService interface {
	// Classify は書類URLの種別を判定する。
	Classify(rawURL string) DocumentKind

	// ValidateURL は署名付きURLなど外部から受け取ったURLを取得前に静的に検証する。
	ValidateURL(rawURL string) error

	// Fetch は書類をダウンロードする。
	// プライベートIPやループバックへの接続はDialerレベルで拒否される。
	Fetch(ctx context.Context, rawURL string) (*Document, error)
}

// Document はダウンロードした書類。
type Document struct {
	ContentType string
	Data        []byte
}

// allowedSchemes は書類の取得で許可されるURLスキーム。
var allowedSchemes = []string{"http", "https"}

// blockedNetworks は書類の取得でブロックされるネットワーク範囲。
// パッケージ初期化時に1回だけパースする。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		// プライベートIPアドレス (RFC 1918)
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		// ループバック (RFC 1122)
		"127.0.0.0/8",
		// リンクローカル (RFC 3927) - クラウドメタデータIP (169.254.169.254) を含む
		"169.254.0.0/16",
		// カレントネットワーク
		"0.0.0.0/8",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// documentGuard はDocumentGuardServiceの実装。
type documentGuard struct {
	client  *http.Client
	maxSize int64
}

// NewDocumentGuard はDocumentGuardServiceの新しいインスタンスを生成する。
// maxSizeは1書類あたりの最大バイト数。
func NewDocumentGuard(timeout time.Duration, maxSize int64) *documentGuard {
	return &documentGuard{
		client:  newSafeClient(timeout),
		maxSize: maxSize,
	}
}

// newSafeClient はSSRF防止機能付きのHTTPクライアントを生成する。
// safeurlはnet.DialerのControlフックでDNS解決後のIPアドレスを検証するため、
// DNS再バインディング攻撃にも対応している。
func newSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// Classify は書類URLの種別を判定する。
// http(s)スキームを持たないものは相対パス、ホストに ".s3." を含むものはS3とみなす。
func (g *documentGuard) Classify(rawURL string) DocumentKind {
	switch {
	case rawURL == "":
		return DocumentEmpty
	case !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://"):
		return DocumentRelative
	case strings.Contains(rawURL, ".s3."):
		return DocumentS3
	default:
		return DocumentPublic
	}
}

// ValidateURL はURLの安全性を事前に検証する。
// DNS解決を伴わない静的な検証であり、DNS再バインディングはFetch側のDialerで防止される。
func (g *documentGuard) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !isAllowedScheme(scheme) {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("blocked IP address: %s", ip.String())
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}
	return nil
}

// Fetch は書類をダウンロードする。maxSizeを超える場合はErrDocumentTooLargeを返す。
func (g *documentGuard) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if err := g.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return g.download(ctx, rawURL)
}

// download はURLの内容を上限サイズまで読み込む。
func (g *documentGuard) download(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch document: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > g.maxSize {
		return nil, ErrDocumentTooLarge
	}

	return &Document{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// isAllowedScheme はURLスキームが許可リストに含まれるかを検証する。
func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isBlockedIP はIPアドレスがブロック対象のネットワーク範囲に含まれるかを検証する。
func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
