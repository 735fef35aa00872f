package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/pkg/register"
	"github.com/leafshare/leafshare/pkg/safe"
	"github.com/leafshare/leafshare/pkg/types"
)

const (
	purgeLockKey   = "process:purge_expired_content"
	purgeBatchSize = uint64(500)
	purgeTimeout   = 5 * time.Minute
)

type purgeStore interface {
	List(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// ExpirationPurgeTask 物理删除过期超过宽限期的内容
// 过期内容在宽限期内对访客已经不可见，这里只负责回收存储
type ExpirationPurgeTask struct {
	store    purgeStore
	storage  core.BodyStorage
	grace    time.Duration
	batch    uint64
	now      func() time.Time
	onPurged func(n int)
}

func NewExpirationPurgeTask(store purgeStore, storage core.BodyStorage, grace time.Duration) *ExpirationPurgeTask {
	return &ExpirationPurgeTask{
		store:   store,
		storage: storage,
		grace:   grace,
		batch:   purgeBatchSize,
		now:     time.Now,
	}
}

// Run 返回本次删除的记录数
func (t *ExpirationPurgeTask) Run(ctx context.Context) (int, error) {
	cutoff := t.now().Add(-t.grace).UnixMilli()
	total := 0

	for {
		list, err := t.store.List(ctx, types.ListContentOptions{ExpiredBefore: cutoff}, 1, t.batch)
		if err != nil {
			return total, err
		}
		if len(list) == 0 {
			break
		}

		ids := make([]string, 0, len(list))
		for _, item := range list {
			ids = append(ids, item.ID)
			if item.BodyKey != "" && t.storage != nil {
				if err := t.storage.Delete(ctx, item.BodyKey); err != nil {
					slog.Warn("failed to delete expired content body",
						slog.String("content_id", item.ID),
						slog.String("body_key", item.BodyKey),
						slog.String("error", err.Error()))
				}
			}
		}

		if err = t.store.DeleteByIDs(ctx, ids); err != nil {
			return total, err
		}
		total += len(ids)
		if t.onPurged != nil {
			t.onPurged(len(ids))
		}

		if uint64(len(list)) < t.batch {
			break
		}

		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return total, nil
}

func init() {
	register.RegisterFunc(ProcessKey{}, func(provider *Process) {
		cfg := provider.Core().Cfg().Process
		if cfg.PurgeGrace <= 0 {
			slog.Info("expired content purge disabled")
			return
		}

		_, err := provider.Cron().AddFunc(cfg.PurgeSpec, func() {
			safe.RunWithLog(func() { purgeExpiredContent(provider, time.Duration(cfg.PurgeGrace)*time.Second) }, "process.purge_expired_content")
		})
		if err != nil {
			slog.Error("invalid process.purge_spec", slog.String("spec", cfg.PurgeSpec), slog.String("error", err.Error()))
		}
	})
}

func purgeExpiredContent(provider *Process, grace time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	// 多实例部署时只需要一个实例执行
	locked, err := provider.Core().TryLock(ctx, purgeLockKey)
	if err != nil || !locked {
		return
	}

	task := NewExpirationPurgeTask(provider.Core().Store().ContentStore(), provider.Core().BodyStorage(), grace)
	task.onPurged = provider.Core().Metrics().PurgedContentAdd

	n, err := task.Run(ctx)
	if err != nil {
		slog.Error("Failed to purge expired content", slog.String("error", err.Error()), slog.Int("purged", n))
		return
	}
	slog.Info("Expired content purged", slog.Int("purged", n))
}
