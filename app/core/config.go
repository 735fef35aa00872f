package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.applyDefaults()

	return *conf
}

func (c CoreConfig) LoadCustomConfig(cfg any) error {
	if len(c.bytes) == 0 {
		return nil
	}
	return toml.Unmarshal(c.bytes, cfg)
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	Site          Site                `toml:"site"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Security      Security            `toml:"security"`
	Share         ShareConfig         `toml:"share"`
	Process       ProcessConfig       `toml:"process"`
	Cache         CacheConfig         `toml:"cache"`

	bytes []byte `toml:"-"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

func (c *CoreConfig) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":33033"
	}
	if c.Share.SlugRetry <= 0 {
		c.Share.SlugRetry = 5
	}
	if c.Share.Collation == "" {
		c.Share.Collation = "en"
	}
	if c.Share.RequestTimeout <= 0 {
		c.Share.RequestTimeout = 5
	}
	if c.Share.MaxBodySize <= 0 {
		c.Share.MaxBodySize = 1 << 20
	}
	if c.Process.PurgeSpec == "" {
		c.Process.PurgeSpec = "@every 10m"
	}
	if c.Cache.OwnerSize <= 0 {
		c.Cache.OwnerSize = 1024
	}
	if c.Cache.OwnerTTL <= 0 {
		c.Cache.OwnerTTL = 300
	}
}

type ObjectStorageDriver struct {
	// Driver 为空时正文保存在数据库中，s3 时正文写入对象存储
	Driver string    `toml:"driver"`
	S3     *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type Site struct {
	Domain          string `toml:"domain"`
	SiteTitle       string `toml:"site_title"`
	SiteDescription string `toml:"site_description"`
}

type Security struct {
	// PublicKeyPath 外部身份服务签发 JWT 所用 RSA 公钥
	PublicKeyPath string `toml:"public_key_path"`
}

type ShareConfig struct {
	SlugRetry int `toml:"slug_retry"`
	// Collation 目录排序使用的语言，BCP 47 格式
	Collation string `toml:"collation"`
	// RequestTimeout 单次解析/列目录的超时时间，单位秒
	RequestTimeout int   `toml:"request_timeout"`
	MaxBodySize    int64 `toml:"max_body_size"`
}

func (s ShareConfig) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

type ProcessConfig struct {
	// PurgeGrace 过期超过该时长（秒）的内容会被物理删除，0 表示不清理
	PurgeGrace int64  `toml:"purge_grace"`
	PurgeSpec  string `toml:"purge_spec"`
}

type CacheConfig struct {
	OwnerSize int `toml:"owner_size"`
	OwnerTTL  int `toml:"owner_ttl"` // 秒
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("LEAFSHARE_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Security.PublicKeyPath = os.Getenv("LEAFSHARE_JWT_PUBLIC_KEY_PATH")
	if v, err := strconv.ParseInt(os.Getenv("LEAFSHARE_PURGE_GRACE"), 10, 64); err == nil {
		c.Process.PurgeGrace = v
	}
}

type PGConfig struct {
	DSN             string `toml:"dsn"`
	MaxOpen         int    `toml:"max_open_conns"`
	MaxIdle         int    `toml:"max_idle_conns"`
	ConnMaxLifeTime int    `toml:"conn_max_lifetime"` // 秒
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("LEAFSHARE_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

func (c PGConfig) MaxOpenConns() int {
	return c.MaxOpen
}

func (c PGConfig) MaxIdleConns() int {
	return c.MaxIdle
}

func (c PGConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeTime) * time.Second
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	Cluster      bool     `toml:"cluster"`
	ClusterAddrs []string `toml:"cluster_addrs"`

	PoolSize     int `toml:"pool_size"`
	DialTimeout  int `toml:"dial_timeout"`  // 秒
	ReadTimeout  int `toml:"read_timeout"`  // 秒
	WriteTimeout int `toml:"write_timeout"` // 秒

	KeyPrefix string `toml:"key_prefix"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("LEAFSHARE_REDIS_ADDR")
	r.Password = os.Getenv("LEAFSHARE_REDIS_PASSWORD")
	if dbStr := os.Getenv("LEAFSHARE_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != "" || (r.Cluster && len(r.ClusterAddrs) > 0)
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("LEAFSHARE_API_LOG_LEVEL")
	l.Path = os.Getenv("LEAFSHARE_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
