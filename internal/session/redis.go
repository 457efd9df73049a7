package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore はRedisにトークンを保存するStore。
// コンソールサーバーを複数台で動かす場合に1つの管理者セッションを共有する。
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore はRedisStoreを生成する。keyPrefixが空の場合は "hirearn-admin" を使用する。
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "hirearn-admin"
	}
	return &RedisStore{
		client: client,
		key:    keyPrefix + ":" + TokenKey,
	}
}

// OpenRedis はURLからRedisクライアントを生成し、疎通を確認する。
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Key はトークンを保存するRedisキーを返す。
func (s *RedisStore) Key() string {
	return s.key
}

// Token はRedisからトークンを取得する。キーが存在しない場合は空文字列を返す。
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

// SetToken はトークンをRedisに保存する。有効期限はバックエンドのトークン側で管理する。
func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// Clear はRedisからトークンを削除する。
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
