package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hirearn/admin-console/internal/admin"
	"github.com/hirearn/admin-console/internal/model"
)

// listUsersFlags はユーザー一覧系コマンドの共通フラグを登録する。
func listUsersFlags(c *cli, name string) (*admin.ListUsersParams, func([]string) error) {
	fs := c.flags(name)
	p := &admin.ListUsersParams{}
	fs.IntVar(&p.Page, "page", 1, "ページ番号")
	fs.IntVar(&p.Limit, "limit", 20, "1ページの件数")
	fs.StringVar(&p.Search, "search", "", "氏名・電話番号で検索")
	fs.StringVar(&p.Role, "role", "", "ロールで絞り込み")
	fs.StringVar(&p.State, "state", "", "状態で絞り込み (ACTIVE, KYC_PENDING, ON_HOLD, SUSPENDED, all)")
	return p, func(args []string) error {
		_, err := parseArgs(fs, args)
		return err
	}
}

// printUsers はユーザー一覧を表形式で出力する。
func (c *cli) printUsers(list *model.UserList) error {
	return c.emit(list, func(w io.Writer) {
		row(w, "ID", "NAME", "PHONE", "ROLE", "STATE", "WALLET", "FROZEN")
		for _, u := range list.Users {
			row(w, u.ID, orDash(u.FullName), orDash(u.PhoneNumber), orDash(u.Role), u.State, inr(u.WalletBalance), u.WalletFrozen)
		}
		pageFooter(w, list.Page)
	})
}

// cmdUsers はユーザー一覧を表示する。
func cmdUsers(ctx context.Context, c *cli, args []string) error {
	p, parse := listUsersFlags(c, "users")
	if err := parse(args); err != nil {
		return err
	}
	list, err := c.svc.ListUsers(ctx, *p)
	if err != nil {
		return err
	}
	return c.printUsers(list)
}

// cmdKYC はKYC審査待ちの一覧を表示する。
func cmdKYC(ctx context.Context, c *cli, args []string) error {
	p, parse := listUsersFlags(c, "kyc")
	if err := parse(args); err != nil {
		return err
	}
	list, err := c.svc.ListKYCReview(ctx, *p)
	if err != nil {
		return err
	}
	return c.printUsers(list)
}

// cmdUser はユーザー詳細を表示する。
func cmdUser(ctx context.Context, c *cli, args []string) error {
	positional, err := parseArgs(c.flags("user"), args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "userId")
	if err != nil {
		return err
	}

	u, err := c.svc.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return c.emit(u, func(w io.Writer) {
		kv(w, "ID", u.ID)
		kv(w, "Name", orDash(u.FullName))
		kv(w, "Phone", orDash(u.PhoneNumber))
		kv(w, "Email", orDash(u.Email))
		kv(w, "Role", orDash(u.Role))
		kv(w, "State", u.State)
		kv(w, "Identity verified", u.IsIdentityVerified)
		kv(w, "Wallet", inr(u.WalletBalance))
		kv(w, "Wallet frozen", u.WalletFrozen)
		kv(w, "Created", orDash(u.CreatedAt))
		if u.IdentityDocuments != nil {
			kv(w, "KYC status", orDash(u.IdentityDocuments.VerificationStatus))
		}
	})
}

// cmdDocuments は本人確認書類の閲覧用URLを表示する。
// --save を指定した場合は書類をディレクトリにダウンロードする。
func cmdDocuments(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("documents")
	saveDir := fs.String("save", "", "書類を保存するディレクトリ")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := requireArg(positional, 0, "userId")
	if err != nil {
		return err
	}

	docs, err := c.svc.KYCDocuments(ctx, id)
	if err != nil {
		return err
	}

	slots := []struct {
		name string
		url  string
	}{
		{"aadhaar-front", docs.Documents.AadhaarFront},
		{"aadhaar-back", docs.Documents.AadhaarBack},
		{"selfie", docs.Documents.Selfie},
		{"pan-card", docs.Documents.PanCard},
	}

	if *saveDir != "" {
		if err := os.MkdirAll(*saveDir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		for _, slot := range slots {
			if slot.url == "" {
				continue
			}
			saved, err := c.saveDocument(ctx, *saveDir, slot.name, slot.url)
			if err != nil {
				return fmt.Errorf("%s: %w", slot.name, err)
			}
			fmt.Fprintf(c.out, "%s を保存しました: %s\n", slot.name, saved)
		}
		return nil
	}

	return c.emit(docs, func(w io.Writer) {
		kv(w, "User", docs.User.DisplayName())
		for _, slot := range slots {
			kv(w, slot.name, orDash(slot.url))
		}
	})
}

// saveDocument は書類を1件ダウンロードしてdirに保存する。
func (c *cli) saveDocument(ctx context.Context, dir, name, rawURL string) (string, error) {
	doc, err := c.svc.DownloadDocument(ctx, rawURL)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name+documentExt(rawURL, doc.ContentType))
	if err := os.WriteFile(dest, doc.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return dest, nil
}

// documentExt は書類の拡張子をURLのパスまたはContent-Typeから決める。
func documentExt(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return strings.ToLower(ext)
		}
	}
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "application/pdf"):
		return ".pdf"
	}
	return ".bin"
}

// userAction はユーザーの状態遷移コマンドを生成する。
func userAction(cmd Command) commandFunc {
	return func(ctx context.Context, c *cli, args []string) error {
		action, ok := admin.ParseUserAction(string(cmd))
		if !ok {
			return fmt.Errorf("unsupported user action %q", cmd)
		}

		fs := c.flags(string(cmd))
		reason := fs.String("reason", "", "監査ログに記録する理由（必須）")
		positional, err := parseArgs(fs, args)
		if err != nil {
			return err
		}
		id, err := requireArg(positional, 0, "userId")
		if err != nil {
			return err
		}

		result, err := c.svc.ApplyUserAction(ctx, id, action, *reason)
		if err != nil {
			return err
		}
		return c.printResult(result, fmt.Sprintf("%s を実行しました。", action))
	}
}

// printResult は管理操作の応答を出力する。
func (c *cli) printResult(result *model.ActionResult, fallback string) error {
	return c.emit(result, func(w io.Writer) {
		msg := result.Message
		if msg == "" {
			msg = fallback
		}
		fmt.Fprintln(w, msg)
	})
}
