package v1

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/types"
)

// ShareLogic 面向访客的读取入口，允许匿名访问
type ShareLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewShareLogic(ctx context.Context, core *core.Core) *ShareLogic {
	l := &ShareLogic{
		ctx:  ctx,
		core: core,
	}

	return l
}

func (l *ShareLogic) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(l.ctx, l.core.Cfg().Share.Timeout())
}

// Resolve 通过 slug 或 share code 读取内容，每次成功读取计数加一
func (l *ShareLogic) Resolve(identifier string) (*types.ContentView, error) {
	ctx, cancel := l.withTimeout()
	defer cancel()

	view, err := l.core.Resolver().Resolve(ctx, identifier, InjectViewerID(l.ctx))
	if err != nil {
		return nil, shareError("ShareLogic.Resolve", err)
	}

	if view.BodyKey != "" {
		body, err := loadBody(ctx, l.core, view.BodyKey)
		if err != nil {
			return nil, errors.New("ShareLogic.Resolve.loadBody", i18n.ERROR_INTERNAL, err)
		}
		view.Body = body
	}
	return view, nil
}

// ListChildren 列出共享文件夹中 relativePath 下的直接子节点
func (l *ShareLogic) ListChildren(identifier, relativePath string) ([]types.ContentSummary, error) {
	ctx, cancel := l.withTimeout()
	defer cancel()

	list, err := l.core.Navigator().ListChildren(ctx, identifier, relativePath, InjectViewerID(l.ctx))
	if err != nil {
		return nil, shareError("ShareLogic.ListChildren", err)
	}
	return list, nil
}

// Explore 只返回可被发现的内容：public、未屏蔽、未过期
func (l *ShareLogic) Explore(page, pageSize uint64) ([]types.ContentSummary, int64, error) {
	ctx, cancel := l.withTimeout()
	defer cancel()

	opts := types.ListContentOptions{
		Permission:     types.PERMISSION_PUBLIC,
		ExcludeBlocked: true,
		LiveAt:         types.GetCurrentMilli(),
	}

	list, err := l.core.Store().ContentStore().List(ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ShareLogic.Explore.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ContentStore().Total(ctx, opts)
	if err != nil {
		return nil, 0, errors.New("ShareLogic.Explore.ContentStore.Total", i18n.ERROR_INTERNAL, err)
	}

	return lo.Map(list, func(item types.Content, _ int) types.ContentSummary {
		return item.Summary()
	}), total, nil
}

// loadBody 正文保存在对象存储时按 key 读取
func loadBody(ctx context.Context, c *core.Core, key string) (string, error) {
	storage := c.BodyStorage()
	if storage == nil {
		slog.Warn("content body stored in object storage but no driver configured", slog.String("body_key", key))
		return "", nil
	}
	raw, err := storage.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
