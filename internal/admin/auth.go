package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/hirearn/admin-console/internal/api"
	"github.com/hirearn/admin-console/internal/model"
)

// digitsOnly は電話番号から数字以外を取り除く。
func digitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
}

// SendOTP は電話番号宛にワンタイムパスワードを送信する。
func (s *Service) SendOTP(ctx context.Context, phone string) (*model.SendOTPResponse, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return nil, model.NewValidationError("phoneNumber", "電話番号を入力してください")
	}

	var resp model.SendOTPResponse
	if err := s.client.Post(ctx, "/auth/send-otp", map[string]string{"phoneNumber": digits}, &resp); err != nil {
		return nil, fmt.Errorf("OTPの送信に失敗しました: %w", err)
	}
	return &resp, nil
}

// VerifyOTP はOTPを検証し、成功した場合はトークンをセッションに保存する。
// 管理者でないアカウントの場合はセッションを破棄してErrNotAdminを返す。
func (s *Service) VerifyOTP(ctx context.Context, phone, otp string) (*model.VerifyOTPResponse, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return nil, model.NewValidationError("phoneNumber", "電話番号を入力してください")
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil, model.NewValidationError("otp", "OTPを入力してください")
	}

	var resp model.VerifyOTPResponse
	body := map[string]string{"phoneNumber": digits, "otp": otp}
	if err := s.client.Post(ctx, "/auth/verify-otp", body, &resp); err != nil {
		return nil, fmt.Errorf("OTPの検証に失敗しました: %w", err)
	}

	store := s.client.Store()
	if resp.Token != "" {
		if err := store.SetToken(ctx, resp.Token); err != nil {
			return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
		}
	}

	if !resp.User.IsAdmin {
		s.logger.Warn("管理者権限のないアカウントによるログインを拒否しました",
			slog.String("user_id", resp.User.ID),
		)
		if err := store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("セッションの破棄に失敗しました: %w", err)
		}
		return nil, ErrNotAdmin
	}

	s.logger.Info("管理者がログインしました", slog.String("user_id", resp.User.ID))
	return &resp, nil
}

// CurrentUser はログイン中のユーザーのプロフィールを返す。
// 応答が {user: ...} で包まれていない場合は本体をそのままユーザーとして扱う。
func (s *Service) CurrentUser(ctx context.Context) (*model.AdminUser, error) {
	resp, err := s.client.Do(ctx, api.Request{Path: "/users/profile"})
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	var envelope struct {
		User *model.AdminUser `json:"user"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	if envelope.User != nil {
		return envelope.User, nil
	}

	var user model.AdminUser
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAuthenticated はセッションにトークンが保存されているかを返す。
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.client.Store().Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Logout はセッションを破棄する。バックエンドへの通知は行わない。
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Store().Clear(ctx); err != nil {
		return fmt.Errorf("セッションの破棄に失敗しました: %w", err)
	}
	s.logger.Info("ログアウトしました")
	return nil
}
