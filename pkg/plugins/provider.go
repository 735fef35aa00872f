package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/pkg/object-storage/s3"
)

func Setup(install func(p core.Plugins), mode string) {
	p := provider[mode]
	if p == nil {
		panic("Setup mode not found: " + mode)
	}
	install(p())
}

var provider = make(map[string]core.SetupFunc)

func RegisterProvider(key string, p core.Plugins) {
	provider[key] = func() core.Plugins {
		return p
	}
}

// SetupBodyStorage driver 为空或 db 时返回 nil，正文保存在数据库
func SetupBodyStorage(cfg core.ObjectStorageDriver) (core.BodyStorage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "db":
		return nil, nil
	case "s3":
		if cfg.S3 == nil {
			return nil, fmt.Errorf("object_storage.s3 is required when driver is s3")
		}
		s3Cfg := cfg.S3
		cli, err := s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey, s3.WithPathStyle(s3Cfg.UsePathStyle))
		if err != nil {
			return nil, err
		}
		return &S3BodyStorage{S3: cli}, nil
	default:
		return nil, fmt.Errorf("unsupported object storage driver: %s", cfg.Driver)
	}
}

type S3BodyStorage struct {
	*s3.S3
}

func (fs *S3BodyStorage) Put(ctx context.Context, key string, body []byte) error {
	return fs.Upload(ctx, key, body)
}

// Get 对象不存在时返回空正文
func (fs *S3BodyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := fs.GetObject(ctx, key)
	if err == s3.ErrObjectNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res.File, nil
}

func (fs *S3BodyStorage) Delete(ctx context.Context, key string) error {
	return fs.S3.Delete(ctx, key)
}
