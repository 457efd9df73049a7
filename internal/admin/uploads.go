package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hirearn/admin-console/internal/model"
	"github.com/hirearn/admin-console/internal/security"
)

// PresignViewURL はS3オブジェクトの閲覧用署名付きURLを発行する。
// 応答の success が false、または signedUrl が空の場合はErrPresignFailedを返す。
func (s *Service) PresignViewURL(ctx context.Context, s3URL string) (string, error) {
	if strings.TrimSpace(s3URL) == "" {
		return "", model.NewValidationError("s3Url", "URLが指定されていません")
	}

	var resp model.PresignViewResponse
	if err := s.client.Post(ctx, "/uploads/presign-view", map[string]string{"s3Url": s3URL}, &resp); err != nil {
		return "", fmt.Errorf("署名付きURLの発行に失敗しました: %w", err)
	}
	if !resp.Success || resp.SignedURL == "" {
		return "", ErrPresignFailed
	}
	if err := s.documents.ValidateURL(resp.SignedURL); err != nil {
		s.logger.Warn("署名付きURLが検証に失敗しました", slog.String("error", err.Error()))
		return "", model.NewDocumentBlockedError()
	}
	return resp.SignedURL, nil
}

// ResolveDocumentURL は書類URLを閲覧可能なURLに変換する。
// 相対パスはバックエンドのホストを補い、S3のURLは署名付きURLを発行する。
// 署名に失敗した場合は空文字列を返す。
func (s *Service) ResolveDocumentURL(ctx context.Context, raw string) string {
	switch s.documents.Classify(raw) {
	case security.DocumentEmpty:
		return ""
	case security.DocumentRelative:
		host := strings.Replace(s.client.BaseURL(), "/api", "", 1)
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		return host + raw
	case security.DocumentS3:
		signed, err := s.PresignViewURL(ctx, raw)
		if err != nil {
			s.logger.Warn("書類の署名付きURLを取得できませんでした", slog.String("error", err.Error()))
			return ""
		}
		return signed
	default:
		return raw
	}
}

// KYCDocuments はユーザー詳細を取得し、4種類の書類URLを並行して閲覧用に変換する。
// 個々の書類の失敗は該当URLを空にするだけで、全体のエラーにはしない。
func (s *Service) KYCDocuments(ctx context.Context, userID string) (*model.KYCDocuments, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &model.KYCDocuments{User: *user}
	docs := user.IdentityDocuments
	if docs == nil {
		return result, nil
	}

	slots := []struct {
		src string
		dst *string
	}{
		{docs.AadhaarFront, &result.Documents.AadhaarFront},
		{docs.AadhaarBack, &result.Documents.AadhaarBack},
		{docs.Selfie, &result.Documents.Selfie},
		{docs.PanCard, &result.Documents.PanCard},
	}

	var g errgroup.Group
	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			*slot.dst = s.ResolveDocumentURL(ctx, slot.src)
			return nil
		})
	}
	g.Wait()

	return result, nil
}

// DownloadDocument は書類URLを解決してダウンロードする。
// 検証に失敗したURLは取得せずDocumentBlockedを返す。
func (s *Service) DownloadDocument(ctx context.Context, raw string) (*security.Document, error) {
	resolved := s.ResolveDocumentURL(ctx, raw)
	if resolved == "" {
		return nil, ErrPresignFailed
	}
	if err := s.documents.ValidateURL(resolved); err != nil {
		s.logger.Warn("書類URLが検証に失敗しました", slog.String("error", err.Error()))
		return nil, model.NewDocumentBlockedError()
	}

	doc, err := s.documents.Fetch(ctx, resolved)
	if errors.Is(err, security.ErrDocumentTooLarge) {
		return nil, model.NewValidationError("document", "書類のサイズが上限を超えています")
	}
	if err != nil {
		s.logger.Warn("書類のダウンロードに失敗しました", slog.String("error", err.Error()))
		return nil, model.NewUpstreamError("書類のダウンロードに失敗しました")
	}
	return doc, nil
}
