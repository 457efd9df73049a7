package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hirearn/admin-console/internal/session"
)

// cmdHelp はコマンド一覧を表示する。
func cmdHelp(_ context.Context, c *cli, _ []string) error {
	fmt.Fprintln(c.out, "usage: hirearn-admin <command> [flags] [args]")
	fmt.Fprintln(c.out)
	return c.emit(nil, func(w io.Writer) {
		for _, name := range commandNames() {
			summary := "Dockerヘルスチェック用に /health を確認する"
			if spec, ok := commands[Command(name)]; ok {
				summary = spec.summary
			}
			row(w, "  "+name, summary)
		}
	})
}

// cmdLogin は電話番号にOTPを送信する。
func cmdLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("login")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	phone, err := requireArg(positional, 0, "phone")
	if err != nil {
		return err
	}

	resp, err := c.svc.SendOTP(ctx, phone)
	if err != nil {
		return err
	}
	return c.emit(resp, func(w io.Writer) {
		fmt.Fprintf(w, "OTPを %s に送信しました。\n", orDash(resp.PhoneNumber))
		fmt.Fprintln(w, "hirearn-admin verify --phone <電話番号> --otp <OTP> でログインしてください。")
	})
}

// cmdVerify はOTPを検証し、管理者であればトークンを保存する。
func cmdVerify(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("verify")
	phone := fs.String("phone", "", "電話番号")
	otp := fs.String("otp", "", "受信したOTP")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	// verify <電話番号> <OTP> の形式も受け付ける
	if *phone == "" && len(positional) > 0 {
		*phone = positional[0]
		positional = positional[1:]
	}
	if *otp == "" && len(positional) > 0 {
		*otp = positional[0]
	}

	resp, err := c.svc.VerifyOTP(ctx, *phone, *otp)
	if err != nil {
		return err
	}

	out := struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Name    string `json:"name"`
		State   string `json:"state,omitempty"`
	}{resp.Success, resp.User.ID, resp.User.DisplayName(), resp.User.State}
	return c.emit(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s としてログインしました。\n", out.Name)
	})
}

// cmdLogout は保存済みのセッションを破棄する。
func cmdLogout(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(c.flags("logout"), args); err != nil {
		return err
	}
	if err := c.svc.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "ログアウトしました。")
	return nil
}

// cmdWhoami はログイン中の管理者とトークンの有効期限を表示する。
func cmdWhoami(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(c.flags("whoami"), args); err != nil {
		return err
	}
	token, err := c.store.Token(ctx)
	if err != nil {
		return err
	}
	info := session.Inspect(token)

	user, err := c.svc.CurrentUser(ctx)
	if err != nil {
		return err
	}

	out := struct {
		ID        string     `json:"id"`
		Name      string     `json:"name"`
		Phone     string     `json:"phoneNumber"`
		IsAdmin   bool       `json:"isAdmin"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}{ID: user.ID, Name: user.DisplayName(), Phone: user.PhoneNumber, IsAdmin: user.IsAdmin}
	if !info.ExpiresAt.IsZero() {
		out.ExpiresAt = &info.ExpiresAt
	}

	return c.emit(out, func(w io.Writer) {
		kv(w, "ID", out.ID)
		kv(w, "Name", out.Name)
		kv(w, "Phone", orDash(out.Phone))
		kv(w, "Admin", out.IsAdmin)
		if out.ExpiresAt != nil {
			kv(w, "Expires", out.ExpiresAt.Local().Format(time.RFC3339))
		} else {
			kv(w, "Expires", "-")
		}
	})
}
