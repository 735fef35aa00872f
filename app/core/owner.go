package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/leafshare/leafshare/pkg/types"
)

type userGetter interface {
	GetUser(ctx context.Context, appid, id string) (*types.User, error)
}

// OwnerDirectory 作者展示名的进程内缓存，解析热门分享时避免反复查 user 表
type OwnerDirectory struct {
	appid   string
	users   userGetter
	cache   *expirable.LRU[string, string]
	metrics *Metrics
}

func NewOwnerDirectory(users userGetter, cfg CacheConfig, metrics *Metrics) *OwnerDirectory {
	return &OwnerDirectory{
		appid:   types.DEFAULT_APPID,
		users:   users,
		cache:   expirable.NewLRU[string, string](cfg.OwnerSize, nil, time.Duration(cfg.OwnerTTL)*time.Second),
		metrics: metrics,
	}
}

// DisplayName 用户不存在时返回空字符串
func (d *OwnerDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	if name, ok := d.cache.Get(userID); ok {
		if d.metrics != nil {
			d.metrics.OwnerCacheHit()
		}
		return name, nil
	}
	if d.metrics != nil {
		d.metrics.OwnerCacheMiss()
	}

	user, err := d.users.GetUser(ctx, d.appid, userID)
	if err != nil && err != sql.ErrNoRows {
		return "", err
	}

	var name string
	if user != nil {
		name = user.DisplayName()
	}
	d.cache.Add(userID, name)
	return name, nil
}

// Forget 用户资料变更后调用
func (d *OwnerDirectory) Forget(userID string) {
	d.cache.Remove(userID)
}
