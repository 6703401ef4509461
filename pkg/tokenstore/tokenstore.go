package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevokeStore 已吊销令牌存储
// 登出时按jti写入，TTL为令牌剩余有效期，之后Redis自动清理
type RevokeStore struct {
	client *redis.Client
	prefix string
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewRevokeStore 创建吊销存储实例
func NewRevokeStore(config *Config) *RevokeStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "newshub"
	}

	return &RevokeStore{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (s *RevokeStore) Close() error {
	return s.client.Close()
}

// Ping 测试Redis连接
func (s *RevokeStore) Ping() error {
	ctx := context.Background()
	return s.client.Ping(ctx).Err()
}

func (s *RevokeStore) key(jti string) string {
	return fmt.Sprintf("%s:revoked:%s", s.prefix, jti)
}

// Revoke 吊销令牌
func (s *RevokeStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// 已过期的令牌无需记录
		return nil
	}
	return s.client.Set(ctx, s.key(jti), 1, ttl).Err()
}

// IsRevoked 检查令牌是否已被吊销
func (s *RevokeStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
