package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// SessionStore 登录会话与Token黑名单
// Key：session:{user_id}、blacklist:{sha256(token)}
type SessionStore struct {
	client redis.UniversalClient
}

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 写入会话字段并设置过期时间，两步在同一事务管道内完成
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "保存会话失败")
	}
	return nil
}

// GetSession 会话不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// HasSession 鉴权中间件使用，只检查是否存在
func (s *SessionStore) HasSession(ctx context.Context, userID uint) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(userID)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "检查会话失败")
	}
	return n > 0, nil
}

// DeleteSession 登出或删除用户时调用
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist ttl取Access Token有效期，过期后自动清理
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "添加Token到黑名单失败")
	}
	return nil
}

func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "检查黑名单失败")
	}
	return n > 0, nil
}
