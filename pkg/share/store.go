package share

import (
	"context"

	"github.com/leafshare/leafshare/pkg/types"
)

// ContentStore 引擎依赖的存储能力
// 查询不到记录时返回 sql.ErrNoRows
type ContentStore interface {
	GetByID(ctx context.Context, id string) (*types.Content, error)
	// GetByIdentifier 按 slug 或 share_code 查找
	GetByIdentifier(ctx context.Context, identifier string) (*types.Content, error)
	// IncrAccessCount 原子地将 access_count 加一并返回新值
	IncrAccessCount(ctx context.Context, id string) (int64, error)
	// ListByPathPrefix 列出 owner 下 path 以 prefix 开头或等于 prefix 去掉末尾 / 的记录
	ListByPathPrefix(ctx context.Context, ownerID, prefix string) ([]types.Content, error)
	// ListSlugsWithPrefix 列出 base 本身以及 base-* 形式的已占用 slug
	ListSlugsWithPrefix(ctx context.Context, base string) ([]string, error)

	// 以下写操作在唯一索引冲突时返回 ErrDuplicateSlug / ErrDuplicateShareCode
	Create(ctx context.Context, data types.Content) error
	SetIdentifiers(ctx context.Context, id, slug, shareCode string) error
	UpdateSlug(ctx context.Context, id, slug string) error
	UpdatePermission(ctx context.Context, id string, permission types.Permission) error
}

// OwnerDirectory 提供作者的展示名称
type OwnerDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}
