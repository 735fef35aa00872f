package core

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leafshare/leafshare/pkg/types"
)

type Plugins interface {
	Name() string
	Install(*Core) error
	DefaultAppid() string
	// TryLock 获取一个随 ctx 结束而释放的锁，多实例部署时避免重复执行定时任务
	TryLock(ctx context.Context, key string) (bool, error)
	UseLimiter(c *gin.Context, key string, method string, opts ...LimitOption) Limiter
	// BodyStorage 正文保存在数据库时返回 nil
	BodyStorage() BodyStorage
	Cache() types.Cache
}

type LimitConfig struct {
	Limit int
	Every time.Duration
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

func WithRange(r time.Duration) LimitOption {
	return func(l *LimitConfig) {
		l.Every = r
	}
}

// BodyStorage 内容正文的外部存储
type BodyStorage interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// BodyObjectKey 正文在对象存储中的 key
func BodyObjectKey(contentID string) string {
	return "content/" + contentID
}

type Limiter interface {
	Allow() bool
}

type SetupFunc func() Plugins

func (c *Core) InstallPlugins(p Plugins) {
	if err := p.Install(c); err != nil {
		panic(err)
	}
	c.Plugins = p

	// 为 sqlstore.Provider 设置 cache 函数
	c.stores().SetCacheFunc(func() types.Cache {
		return c.Plugins.Cache()
	})
}
