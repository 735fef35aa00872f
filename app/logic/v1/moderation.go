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
)

// ModerationLogic 站点管理员屏蔽或解除屏蔽内容
type ModerationLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewModerationLogic(ctx context.Context, core *core.Core) *ModerationLogic {
	l := &ModerationLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

func (l *ModerationLogic) SetBlocked(id string, blocked bool) error {
	user := l.GetUserInfo()
	if !l.core.Srv().RBAC().CheckPermission(user.GetRole(), srv.PermissionModerate) {
		return errors.New("ModerationLogic.SetBlocked.RBAC.CheckPermission", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}

	err := l.core.Store().ContentStore().SetBlocked(l.ctx, id, blocked)
	if err == sql.ErrNoRows {
		return errors.New("ModerationLogic.SetBlocked.ContentStore.SetBlocked.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("ModerationLogic.SetBlocked.ContentStore.SetBlocked", i18n.ERROR_INTERNAL, err)
	}

	slog.Info("content moderation changed",
		slog.String("content_id", id),
		slog.Bool("blocked", blocked),
		slog.String("operator", user.User))
	return nil
}
