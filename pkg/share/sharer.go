package share

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leafshare/leafshare/pkg/types"
)

type ShareOptions struct {
	CustomSlug string
	// IsPublic 为 nil 时不修改权限；true -> public，false -> unlisted
	IsPublic *bool
}

// Sharer 实现 createOrShare：新记录在创建时分配标识符，已有记录保持原标识符不变
type Sharer struct {
	store     ContentStore
	generator *Generator
}

func NewSharer(store ContentStore, generator *Generator) *Sharer {
	return &Sharer{
		store:     store,
		generator: generator,
	}
}

func permissionFromOption(isPublic bool) types.Permission {
	if isPublic {
		return types.PERMISSION_PUBLIC
	}
	return types.PERMISSION_UNLISTED
}

// CreateOrShare 幂等：重复调用只会在显式传入时更新权限或自定义 slug，不会重新生成标识符
func (s *Sharer) CreateOrShare(ctx context.Context, record types.Content, opts ShareOptions) (Identifiers, error) {
	if record.ID == "" {
		return Identifiers{}, ErrMissingID
	}

	exist, err := s.store.GetByID(ctx, record.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Identifiers{}, err
	}
	if exist == nil {
		return s.create(ctx, record, opts)
	}
	return s.share(ctx, exist, opts)
}

func (s *Sharer) create(ctx context.Context, record types.Content, opts ShareOptions) (Identifiers, error) {
	if record.Permission == "" {
		record.Permission = types.PERMISSION_PRIVATE
	}
	if opts.IsPublic != nil {
		record.Permission = permissionFromOption(*opts.IsPublic)
	}
	if !record.Permission.Valid() {
		return Identifiers{}, ErrInvalidPermission
	}
	if record.Type == "" {
		record.Type = types.CONTENT_TYPE_FILE
	}
	if record.Path == "" {
		record.Path = types.ROOT_PATH
	}

	return s.generator.Assign(ctx, record.Title, opts.CustomSlug, func(ids Identifiers) error {
		record.Slug = ids.Slug
		record.ShareCode = ids.ShareCode
		return s.store.Create(ctx, record)
	})
}

func (s *Sharer) share(ctx context.Context, exist *types.Content, opts ShareOptions) (Identifiers, error) {
	customSlug := opts.CustomSlug
	if !exist.HasIdentifiers() {
		// 历史数据可能缺少标识符，首次分享时只补齐缺失的部分
		if exist.Slug == "" {
			customSlug = ""
		}
		latest, err := s.fillIdentifiers(ctx, exist, opts.CustomSlug)
		if err != nil {
			return Identifiers{}, err
		}
		exist = latest
	}

	ids := Identifiers{Slug: exist.Slug, ShareCode: exist.ShareCode}
	if customSlug != "" {
		slug, err := NormalizeCustomSlug(customSlug)
		if err != nil {
			return Identifiers{}, err
		}
		if slug != exist.Slug {
			if err = s.store.UpdateSlug(ctx, exist.ID, slug); err != nil {
				if errors.Is(err, ErrDuplicateSlug) {
					return Identifiers{}, ErrSlugTaken
				}
				return Identifiers{}, err
			}
			ids.Slug = slug
		}
	}

	if opts.IsPublic != nil {
		permission := permissionFromOption(*opts.IsPublic)
		if permission != exist.Permission {
			if err := s.store.UpdatePermission(ctx, exist.ID, permission); err != nil {
				return Identifiers{}, err
			}
		}
	}
	return ids, nil
}

func (s *Sharer) fillIdentifiers(ctx context.Context, exist *types.Content, customSlug string) (*types.Content, error) {
	var err error
	if exist.Slug == "" {
		_, err = s.generator.Assign(ctx, exist.Title, customSlug, func(next Identifiers) error {
			if exist.ShareCode != "" {
				next.ShareCode = exist.ShareCode
			}
			return s.store.SetIdentifiers(ctx, exist.ID, next.Slug, next.ShareCode)
		})
	} else {
		_, err = s.generator.AssignShareCode(ctx, func(code string) error {
			return s.store.SetIdentifiers(ctx, exist.ID, exist.Slug, code)
		})
	}
	// sql.ErrNoRows: 并发分享时对方已经写入，以库中的为准
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return s.store.GetByID(ctx, exist.ID)
}
