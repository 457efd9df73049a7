package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileDocument はセッションファイルのJSON形式。
type fileDocument struct {
	AuthToken string    `json:"authToken"`
	SavedAt   time.Time `json:"savedAt"`
}

// FileStore はトークンをローカルファイルに保存するStore。
// CLIの実行間でログイン状態を維持するために使用する。
// ファイルはパーミッション0600で書き込み、一時ファイルからのリネームで置き換える。
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore は指定パスを使用するFileStoreを生成する。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath はユーザー設定ディレクトリ配下の既定のセッションファイルパスを返す。
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("設定ディレクトリの取得に失敗しました: %w", err)
	}
	return filepath.Join(dir, "hirearn-admin", "session.json"), nil
}

// Path はセッションファイルのパスを返す。
func (s *FileStore) Path() string {
	return s.path
}

// Token はファイルからトークンを読み取る。ファイルが存在しない場合は空文字列を返す。
func (s *FileStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("セッションファイルの読み取りに失敗しました: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("セッションファイルのパースに失敗しました: %w", err)
	}
	return doc.AuthToken, nil
}

// SetToken はトークンをファイルに書き込む。
func (s *FileStore) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("セッションディレクトリの作成に失敗しました: %w", err)
	}

	data, err := json.Marshal(fileDocument{AuthToken: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("セッションファイルの書き込みに失敗しました: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("セッションファイルの置き換えに失敗しました: %w", err)
	}
	return nil
}

// Clear はセッションファイルを削除する。ファイルが存在しない場合もエラーにしない。
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("セッションファイルの削除に失敗しました: %w", err)
	}
	return nil
}
