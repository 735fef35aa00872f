package v1

import (
	"context"
	"database/sql"
	"time"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

// 用户与 token 由外部身份服务管理，这里只负责校验与初始化管理员
func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	l := &AuthLogic{
		ctx:  ctx,
		core: core,
	}

	return l
}

// GetAccessTokenDetail 数据库中只保存 token 的摘要
func (l *AuthLogic) GetAccessTokenDetail(appid, token string) (*types.AccessToken, error) {
	data, err := l.core.Store().AccessTokenStore().GetAccessToken(l.ctx, appid, utils.HashToken(token))
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AuthLogic.GetAccessTokenDetail.AccessTokenStore.GetAccessToken", i18n.ERROR_INTERNAL, err)
	}

	return data, nil
}

// GetUserGlobalRole 没有记录的用户视为普通成员
func (l *AuthLogic) GetUserGlobalRole(appid, userID string) (string, error) {
	role, err := l.core.Store().UserGlobalRoleStore().GetUserRole(l.ctx, appid, userID)
	if err != nil {
		return "", errors.New("AuthLogic.GetUserGlobalRole.UserGlobalRoleStore.GetUserRole", i18n.ERROR_INTERNAL, err)
	}
	if role == nil {
		return types.DefaultGlobalRole, nil
	}
	return role.Role, nil
}

// InitAdminUser 创建站点管理员及其 access token，返回 token 明文，只会出现这一次
func (l *AuthLogic) InitAdminUser(appid string) (string, error) {
	userID := utils.GenUniqIDStr()
	accessToken, err := utils.RandomToken(32)
	if err != nil {
		return "", errors.New("AuthLogic.InitAdminUser.RandomToken", i18n.ERROR_INTERNAL, err)
	}

	now := time.Now().Unix()
	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().UserStore().Create(ctx, types.User{
			ID:        userID,
			Appid:     appid,
			Name:      "Admin",
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return errors.New("AuthLogic.InitAdminUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
		}

		err = l.core.Store().UserGlobalRoleStore().Create(ctx, types.UserGlobalRole{
			UserID:    userID,
			Appid:     appid,
			Role:      types.GlobalRoleChief,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return errors.New("AuthLogic.InitAdminUser.UserGlobalRoleStore.Create", i18n.ERROR_INTERNAL, err)
		}

		err = l.core.Store().AccessTokenStore().Create(ctx, types.AccessToken{
			Appid:     appid,
			UserID:    userID,
			Version:   types.DEFAULT_ACCESS_TOKEN_VERSION,
			Token:     utils.HashToken(accessToken),
			ExpiresAt: time.Now().AddDate(999, 0, 0).Unix(),
			Info:      "Admin user token",
		})
		if err != nil {
			return errors.New("AuthLogic.InitAdminUser.AccessTokenStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return accessToken, nil
}
