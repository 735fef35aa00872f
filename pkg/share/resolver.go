package share

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/leafshare/leafshare/pkg/types"
)

// Resolver 将 slug / share code 解析为内容
// 所有读取标识符的入口（页面、API、目录浏览）都必须经过这里
type Resolver struct {
	store   ContentStore
	owners  OwnerDirectory
	now     func() time.Time
	observe func(outcome string)
}

type ResolverOption func(*Resolver)

func WithOwnerDirectory(owners OwnerDirectory) ResolverOption {
	return func(r *Resolver) {
		r.owners = owners
	}
}

func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithObserver 每次解析结束时回调结果，用于指标统计
func WithObserver(fn func(outcome string)) ResolverOption {
	return func(r *Resolver) {
		r.observe = fn
	}
}

func NewResolver(store ContentStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) report(outcome string) {
	if r.observe != nil {
		r.observe(outcome)
	}
}

// Authorize 查找并校验访问权限，不增加访问计数
// 任何拒绝原因都返回 ErrNotFound
func (r *Resolver) Authorize(ctx context.Context, identifier, viewerID string) (*types.Content, error) {
	if identifier == "" {
		r.report("not_found")
		return nil, ErrNotFound
	}

	record, err := r.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.report("not_found")
			return nil, ErrNotFound
		}
		return nil, err
	}

	verdict := Evaluate(record, viewerID, r.now())
	if !verdict.Allowed {
		r.report(verdict.Reason.String())
		return nil, ErrNotFound
	}
	return record, nil
}

// Resolve 解析成功后原子地为内容增加一次访问计数
func (r *Resolver) Resolve(ctx context.Context, identifier, viewerID string) (*types.ContentView, error) {
	record, err := r.Authorize(ctx, identifier, viewerID)
	if err != nil {
		return nil, err
	}

	count, err := r.store.IncrAccessCount(ctx, record.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 校验后记录被删除
			r.report("not_found")
			return nil, ErrNotFound
		}
		return nil, err
	}
	record.AccessCount = count
	r.report(DenyNone.String())

	return r.View(ctx, record, viewerID), nil
}

// View 生成对外的只读投影，share code 只对作者可见
func (r *Resolver) View(ctx context.Context, record *types.Content, viewerID string) *types.ContentView {
	isOwner := viewerID != "" && viewerID == record.OwnerID
	view := &types.ContentView{
		ID:          record.ID,
		Title:       record.Title,
		Body:        record.Body,
		BodyKey:     record.BodyKey,
		Slug:        record.Slug,
		Permission:  record.Permission,
		Type:        record.Type,
		Path:        record.Path,
		IsOwner:     isOwner,
		AccessCount: record.AccessCount,
		ExpiresAt:   record.ExpiresAt,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}

	if isOwner {
		view.ShareCode = record.ShareCode
	}

	if record.OwnerID != "" && r.owners != nil {
		name, err := r.owners.DisplayName(ctx, record.OwnerID)
		if err != nil {
			slog.Warn("failed to load owner display name",
				slog.String("component", "share.resolver"),
				slog.String("owner_id", record.OwnerID),
				slog.String("error", err.Error()))
		} else {
			view.OwnerName = name
		}
	}
	return view
}
