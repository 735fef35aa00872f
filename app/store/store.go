package store

import (
	"context"

	"github.com/leafshare/leafshare/pkg/share"
	"github.com/leafshare/leafshare/pkg/sqlstore"
	"github.com/leafshare/leafshare/pkg/types"
)

// ContentStore 内容表，同时满足分享引擎所需的存储能力
type ContentStore interface {
	sqlstore.SqlCommons
	share.ContentStore
	Update(ctx context.Context, id string, data types.UpdateContentArgs) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	List(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error)
	Total(ctx context.Context, opts types.ListContentOptions) (int64, error)
}

type AccessTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, appid, token string) (*types.AccessToken, error)
	Delete(ctx context.Context, appid, userID string, id int64) error
	ClearUserTokens(ctx context.Context, appid, userID string) error
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, appid, id string) (*types.User, error)
	UpdateUserProfile(ctx context.Context, appid, id, userName, email, avatar string) error
	Delete(ctx context.Context, appid, id string) error
}

// UserGlobalRoleStore 全局用户角色存储接口
type UserGlobalRoleStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.UserGlobalRole) error
	GetUserRole(ctx context.Context, appid, userID string) (*types.UserGlobalRole, error)
	UpdateUserRole(ctx context.Context, appid, userID, role string) error
	Delete(ctx context.Context, appid, userID string) error
	ListUsersByRole(ctx context.Context, opts types.ListUserGlobalRoleOptions, page, pageSize uint64) ([]types.UserGlobalRole, error)
}
