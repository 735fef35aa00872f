package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/app/core/srv"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/security"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

func (u *_userInfo) Identification(roler srv.RoleObject, permission string) error {
	if err := u.core.Srv().RBAC().Check(u.GetUserInfo(), roler, permission); err != nil {
		return err
	}
	return nil
}

// lazyRolerFromContentID 通过内容 id 获取作者 id
func (u *_userInfo) lazyRolerFromContentID(id string) *srv.LazyRoler {
	return srv.NewRolerWithLazyload(func() (string, error) {
		c, err := u.core.Store().ContentStore().GetByID(u.ctx, id)
		if err != nil && err != sql.ErrNoRows {
			slog.Error("Failed to get owner by content id", slog.String("content_id", id), slog.String("error", err.Error()))
			return "", errors.New("_userInfo.lazyRolerFromContentID.ContentStore.GetByID", i18n.ERROR_INTERNAL, err)
		}
		if c == nil {
			return "", errors.New("_userInfo.lazyRolerFromContentID.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return c.OwnerID, nil
	})
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	Identification(roler srv.RoleObject, permission string) error
	lazyRolerFromContentID(id string) *srv.LazyRoler
}
