package core

import (
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v9"
	"golang.org/x/text/language"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leafshare/leafshare/app/core/srv"
	"github.com/leafshare/leafshare/app/store/sqlstore"
	"github.com/leafshare/leafshare/pkg/share"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() *sqlstore.Provider
	redis      redis.UniversalClient
	httpEngine *gin.Engine

	owners    *OwnerDirectory
	resolver  *share.Resolver
	navigator *share.Navigator
	sharer    *share.Sharer

	metrics *Metrics
	Plugins
}

func setupLogger(cfg Log) {
	var writer io.Writer = os.Stdout
	if cfg.Path != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
			Compress:   true,
		}
	}
	l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(l)
}

func MustSetupCore(cfg CoreConfig) *Core {
	setupLogger(cfg.Log)

	core := &Core{
		cfg:        cfg,
		metrics:    NewMetrics("leafshare", "core"),
		httpEngine: gin.New(),
		srv:        srv.SetupSrvs(),
	}

	setupSqlStore(core)
	if cfg.Redis.Enabled() {
		core.redis = MustSetupRedis(cfg.Redis)
	}
	setupShareEngine(core)

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
	slog.Info("setupSqlStore done")
}

func setupShareEngine(core *Core) {
	contents := core.Store().ContentStore()

	core.owners = NewOwnerDirectory(core.Store().UserStore(), core.cfg.Cache, core.metrics)

	core.resolver = share.NewResolver(contents,
		share.WithOwnerDirectory(core.owners),
		share.WithObserver(core.metrics.ResolveOutcomeInc))

	tag, err := language.Parse(core.cfg.Share.Collation)
	if err != nil {
		slog.Warn("invalid share.collation, fallback to english", slog.String("collation", core.cfg.Share.Collation), slog.String("error", err.Error()))
		tag = language.English
	}
	core.navigator = share.NewNavigator(core.resolver, contents, tag)

	generator := share.NewGenerator(contents, core.cfg.Share.SlugRetry).OnRetry(core.metrics.SlugRetryInc)
	core.sharer = share.NewSharer(contents, generator)
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

// Redis 未配置时返回 nil
func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

func (s *Core) Owners() *OwnerDirectory {
	return s.owners
}

// Resolver 所有通过 slug / share code 读取内容的入口
func (s *Core) Resolver() *share.Resolver {
	return s.resolver
}

func (s *Core) Navigator() *share.Navigator {
	return s.navigator
}

func (s *Core) Sharer() *share.Sharer {
	return s.sharer
}
