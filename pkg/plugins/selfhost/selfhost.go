package selfhost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"

	"github.com/leafshare/leafshare/app/core"
	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/store/sqlstore"
	"github.com/leafshare/leafshare/pkg/plugins"
	"github.com/leafshare/leafshare/pkg/safe"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

const defaultLockTTL = 10 * time.Minute

func NewSingleLock() *SingleLock {
	return &SingleLock{
		locks: make(map[string]bool),
	}
}

// SingleLock 单实例部署时的进程内锁
type SingleLock struct {
	mu    sync.Mutex
	locks map[string]bool
}

func (s *SingleLock) TryLock(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] {
		return false, nil
	}
	s.locks[key] = true
	go safe.Run(func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locks, key)
	})
	return true, nil
}

func init() {
	plugins.RegisterProvider("selfhost", newSelfHostMode())
}

var _ core.Plugins = (*SelfHostPlugin)(nil)

func newSelfHostMode() *SelfHostPlugin {
	return &SelfHostPlugin{
		Appid:      types.DEFAULT_APPID,
		singleLock: NewSingleLock(),
		limiters:   cmap.New[*rate.Limiter](),
		cache:      &sqlstore.EmptyCache{},
	}
}

type SelfHostPlugin struct {
	core       *core.Core
	Appid      string
	singleLock *SingleLock
	limiters   cmap.ConcurrentMap[string, *rate.Limiter]
	storage    core.BodyStorage
	cache      types.Cache
}

func (s *SelfHostPlugin) Name() string {
	return "selfhost"
}

func (s *SelfHostPlugin) DefaultAppid() string {
	return s.Appid
}

func (s *SelfHostPlugin) Install(c *core.Core) error {
	s.core = c
	fmt.Println("Start initialize.")
	utils.SetupIDWorker(1)

	var err error
	if s.storage, err = plugins.SetupBodyStorage(c.Cfg().ObjectStorage); err != nil {
		return fmt.Errorf("Failed to setup body storage, %w", err)
	}

	if c.Redis() != nil {
		s.cache = core.NewRedisCache(c.Redis(), c.Cfg().Redis.KeyPrefix)
	}

	var tokenCount int
	if err := c.Store().GetMaster().Get(&tokenCount, "SELECT COUNT(*) FROM "+types.TABLE_ACCESS_TOKEN.Name()+" WHERE true"); err != nil {
		return fmt.Errorf("Initialize sql error: %w", err)
	}

	if tokenCount > 0 {
		fmt.Println("System is already initialized. Skip.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	token, err := v1.NewAuthLogic(ctx, c).InitAdminUser(s.Appid)
	if err != nil {
		return err
	}

	fmt.Println("Appid:", s.Appid)
	fmt.Println("Access token:", token)
	return nil
}

func (s *SelfHostPlugin) Cache() types.Cache {
	return s.cache
}

// TryLock 配置了 redis 时使用 SET NX，否则退化为进程内锁
func (s *SelfHostPlugin) TryLock(ctx context.Context, key string) (bool, error) {
	if s.core == nil || s.core.Redis() == nil {
		return s.singleLock.TryLock(ctx, key)
	}

	ttl := defaultLockTTL
	if deadline, ok := ctx.Deadline(); ok {
		ttl = time.Until(deadline)
	}
	if ttl <= 0 {
		return false, nil
	}

	lockKey := s.core.RedisKey("lock:" + key)
	ok, err := s.core.Redis().SetNX(ctx, lockKey, s.Appid, ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	go safe.Run(func() {
		<-ctx.Done()
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.core.Redis().Del(releaseCtx, lockKey).Err(); err != nil {
			slog.Warn("failed to release lock", slog.String("key", lockKey), slog.String("error", err.Error()))
		}
	})
	return true, nil
}

// UseLimiter 默认每分钟 60 次，允许 Limit 次突发
func (s *SelfHostPlugin) UseLimiter(c *gin.Context, key string, method string, opts ...core.LimitOption) core.Limiter {
	cfg := &core.LimitConfig{
		Limit: 60,
		Every: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}

	mapKey := method + ":" + key
	if l, ok := s.limiters.Get(mapKey); ok {
		return l
	}
	s.limiters.SetIfAbsent(mapKey, rate.NewLimiter(rate.Every(cfg.Every/time.Duration(cfg.Limit)), cfg.Limit))
	l, _ := s.limiters.Get(mapKey)
	return l
}

func (s *SelfHostPlugin) BodyStorage() core.BodyStorage {
	return s.storage
}
