package session

import (
	"context"
	"sync"
)

// MemoryStore はプロセス内メモリにトークンを保持するStore。
// テストおよび --ephemeral 実行時に使用する。
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore はMemoryStoreを生成する。初期トークンは空でもよい。
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Token は保持しているトークンを返す。
func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// SetToken はトークンを保存する。
func (s *MemoryStore) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear はトークンを削除する。
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
