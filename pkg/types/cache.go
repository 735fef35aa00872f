package types

import (
	"context"
	"time"
)

// Cache 接口定义了缓存操作的基本方法
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// UserTokenMeta 登录态 token 在缓存中保存的内容
type UserTokenMeta struct {
	UserID   string `json:"user_id"`
	Appid    string `json:"appid"`
	ExpireAt int64  `json:"expire_at"`
}
