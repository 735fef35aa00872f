package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

const (
	// KIND_SESSION 由外部身份服务写入的登录态
	KIND_SESSION = "user"
	// KIND_ACCESS_TOKEN 数据库中的 access token 校验结果
	KIND_ACCESS_TOKEN = "access"
)

func TokenCacheKey(kind, tokenValue string) string {
	return fmt.Sprintf("%s:token:%s", kind, utils.HashToken(tokenValue))
}

// LookupToken 缓存未命中时返回 nil, nil
func LookupToken(ctx context.Context, cache types.Cache, kind, tokenValue string) (*types.UserTokenMeta, error) {
	raw, err := cache.Get(ctx, TokenCacheKey(kind, tokenValue))
	if err != nil && err != redis.Nil {
		return nil, errors.New("auth.LookupToken.cache_get", i18n.ERROR_INTERNAL, err)
	}
	if raw == "" {
		return nil, nil
	}

	var meta types.UserTokenMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, errors.New("auth.LookupToken.unmarshal", i18n.ERROR_INTERNAL, err)
	}
	if meta.ExpireAt > 0 && meta.ExpireAt < time.Now().Unix() {
		return nil, nil
	}
	return &meta, nil
}

// RememberToken 缓存 token 校验结果，ttl 不超过 token 剩余有效期
func RememberToken(ctx context.Context, cache types.Cache, kind, tokenValue string, meta types.UserTokenMeta, ttl time.Duration) error {
	if meta.ExpireAt > 0 {
		if remain := time.Until(time.Unix(meta.ExpireAt, 0)); remain < ttl {
			ttl = remain
		}
	}
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return errors.New("auth.RememberToken.marshal", i18n.ERROR_INTERNAL, err)
	}
	if err = cache.SetEx(ctx, TokenCacheKey(kind, tokenValue), string(raw), ttl); err != nil {
		return errors.New("auth.RememberToken.cache_set", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// ValidateTokenFromCache 校验外部身份服务写入缓存的登录 token
func ValidateTokenFromCache(ctx context.Context, tokenValue string, cache types.Cache) (*types.UserTokenMeta, error) {
	if tokenValue == "" {
		return nil, errors.New("auth.ValidateTokenFromCache.empty_token", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}

	meta, err := LookupToken(ctx, cache, KIND_SESSION, tokenValue)
	if err != nil {
		return nil, errors.Trace("auth.ValidateTokenFromCache", err)
	}
	if meta == nil {
		return nil, errors.New("auth.ValidateTokenFromCache.token_not_found", i18n.ERROR_UNAUTHORIZED, fmt.Errorf("nil token")).Code(http.StatusUnauthorized)
	}
	return meta, nil
}
