package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/app/core/srv"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/share"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

const MaxTitleLength = 255

// ContentLogic 作者对自己内容的管理
type ContentLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewContentLogic(ctx context.Context, core *core.Core) *ContentLogic {
	l := &ContentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

type CreateContentArgs struct {
	Title      string
	Body       string
	Type       types.ContentType
	Path       string
	Permission types.Permission
	ExpiresAt  int64
	CustomSlug string
	IsPublic   *bool
}

type CreateContentResult struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	ShareCode string `json:"share_code"`
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return "", share.ErrInvalidTitle
	}
	return title, nil
}

// normalizeContentPath 文件的 path 为自身位置，不能是根目录
func normalizeContentPath(p string, contentType types.ContentType) (string, error) {
	normalized, err := share.NormalizeRelativePath(p)
	if err != nil {
		return "", err
	}
	if contentType == types.CONTENT_TYPE_FILE && normalized == types.ROOT_PATH {
		return "", share.ErrInvalidPath
	}
	return normalized, nil
}

func validateExpiresAt(trace string, expiresAt int64) error {
	if expiresAt < 0 || (expiresAt > 0 && expiresAt <= types.GetCurrentMilli()) {
		return errors.New(trace, i18n.ERROR_INVALID_EXPIRES_AT, nil).Code(http.StatusBadRequest)
	}
	return nil
}

func (l *ContentLogic) checkBodySize(trace, body string) error {
	if int64(len(body)) > l.core.Cfg().Share.MaxBodySize {
		return errors.New(trace, i18n.ERROR_CONTENT_BODY_TOO_LARGE, nil).Code(http.StatusRequestEntityTooLarge)
	}
	return nil
}

// storeBody 配置了对象存储时把正文写入对象存储，返回写入数据库的 body 与 body_key
func (l *ContentLogic) storeBody(ctx context.Context, id, body string) (string, string, error) {
	storage := l.core.BodyStorage()
	if storage == nil || body == "" {
		return body, "", nil
	}
	key := core.BodyObjectKey(id)
	if err := storage.Put(ctx, key, []byte(body)); err != nil {
		return "", "", err
	}
	return "", key, nil
}

func (l *ContentLogic) removeBody(ctx context.Context, key string) {
	storage := l.core.BodyStorage()
	if storage == nil || key == "" {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete content body", slog.String("body_key", key), slog.String("error", err.Error()))
	}
}

// Create 新建文件或文件夹，创建时即分配 slug 与 share code
func (l *ContentLogic) Create(args CreateContentArgs) (*CreateContentResult, error) {
	var err error
	if args.Title, err = validateTitle(args.Title); err != nil {
		return nil, shareError("ContentLogic.Create.validateTitle", err)
	}
	if args.Type == "" {
		args.Type = types.CONTENT_TYPE_FILE
	}
	if !args.Type.Valid() {
		return nil, errors.New("ContentLogic.Create.Type", i18n.ERROR_INVALID_CONTENT_TYPE, nil).Code(http.StatusBadRequest)
	}
	if args.Permission != "" && !args.Permission.Valid() {
		return nil, shareError("ContentLogic.Create.Permission", share.ErrInvalidPermission)
	}
	if args.Path, err = normalizeContentPath(args.Path, args.Type); err != nil {
		return nil, shareError("ContentLogic.Create.Path", err)
	}
	if err = validateExpiresAt("ContentLogic.Create.ExpiresAt", args.ExpiresAt); err != nil {
		return nil, err
	}
	if args.Type == types.CONTENT_TYPE_FOLDER {
		args.Body = ""
	}
	if err = l.checkBodySize("ContentLogic.Create.Body", args.Body); err != nil {
		return nil, err
	}

	record := types.Content{
		ID:         utils.GenUniqIDStr(),
		OwnerID:    l.GetUserInfo().User,
		Title:      args.Title,
		Type:       args.Type,
		Path:       args.Path,
		Permission: args.Permission,
		ExpiresAt:  args.ExpiresAt,
		Size:       int64(len(args.Body)),
	}

	if record.Body, record.BodyKey, err = l.storeBody(l.ctx, record.ID, args.Body); err != nil {
		return nil, errors.New("ContentLogic.Create.storeBody", i18n.ERROR_INTERNAL, err)
	}

	ids, err := l.core.Sharer().CreateOrShare(l.ctx, record, share.ShareOptions{
		CustomSlug: args.CustomSlug,
		IsPublic:   args.IsPublic,
	})
	if err != nil {
		l.removeBody(l.ctx, record.BodyKey)
		return nil, shareError("ContentLogic.Create.CreateOrShare", err)
	}

	return &CreateContentResult{
		ID:        record.ID,
		Slug:      ids.Slug,
		ShareCode: ids.ShareCode,
	}, nil
}

// getOwned 读取内容并校验当前用户为作者，permission 角色可越过作者校验
func (l *ContentLogic) getOwned(trace, id, permission string) (*types.Content, error) {
	if err := l.Identification(l.lazyRolerFromContentID(id), permission); err != nil {
		return nil, errors.Trace(trace, err)
	}

	record, err := l.core.Store().ContentStore().GetByID(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New(trace+".ContentStore.GetByID", i18n.ERROR_INTERNAL, err)
	}
	if record == nil {
		return nil, errors.New(trace+".ContentStore.GetByID.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return record, nil
}

// Get 作者读取自己的内容，不受屏蔽与过期限制
func (l *ContentLogic) Get(id string) (*types.Content, error) {
	record, err := l.getOwned("ContentLogic.Get", id, srv.PermissionModerate)
	if err != nil {
		return nil, err
	}
	if record.BodyKey != "" {
		if record.Body, err = loadBody(l.ctx, l.core, record.BodyKey); err != nil {
			return nil, errors.New("ContentLogic.Get.loadBody", i18n.ERROR_INTERNAL, err)
		}
	}
	return record, nil
}

type UpdateContentArgs struct {
	Title      *string
	Body       *string
	Path       *string
	Permission *types.Permission
	ExpiresAt  *int64
}

func (l *ContentLogic) Update(id string, args UpdateContentArgs) error {
	record, err := l.getOwned("ContentLogic.Update", id, srv.PermissionChief)
	if err != nil {
		return err
	}

	var data types.UpdateContentArgs
	if args.Title != nil {
		title, err := validateTitle(*args.Title)
		if err != nil {
			return shareError("ContentLogic.Update.validateTitle", err)
		}
		data.Title = &title
	}
	if args.Path != nil {
		p, err := normalizeContentPath(*args.Path, record.Type)
		if err != nil {
			return shareError("ContentLogic.Update.Path", err)
		}
		data.Path = &p
	}
	if args.Permission != nil {
		if !args.Permission.Valid() {
			return shareError("ContentLogic.Update.Permission", share.ErrInvalidPermission)
		}
		data.Permission = args.Permission
	}
	if args.ExpiresAt != nil {
		if err = validateExpiresAt("ContentLogic.Update.ExpiresAt", *args.ExpiresAt); err != nil {
			return err
		}
		data.ExpiresAt = args.ExpiresAt
	}
	if args.Body != nil && !record.IsFolder() {
		if err = l.checkBodySize("ContentLogic.Update.Body", *args.Body); err != nil {
			return err
		}
		body, key, err := l.storeBody(l.ctx, record.ID, *args.Body)
		if err != nil {
			return errors.New("ContentLogic.Update.storeBody", i18n.ERROR_INTERNAL, err)
		}
		if key == "" && record.BodyKey != "" {
			// 正文清空后不再保留对象
			l.removeBody(l.ctx, record.BodyKey)
		}
		data.Body = &body
		data.BodyKey = &key
		data.Size = lo.ToPtr(int64(len(*args.Body)))
	}

	if err = l.core.Store().ContentStore().Update(l.ctx, record.ID, data); err != nil {
		return errors.New("ContentLogic.Update.ContentStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// Delete 物理删除，同时清理对象存储中的正文
func (l *ContentLogic) Delete(id string) error {
	record, err := l.getOwned("ContentLogic.Delete", id, srv.PermissionChief)
	if err != nil {
		return err
	}

	if err = l.core.Store().ContentStore().Delete(l.ctx, record.ID); err != nil {
		return errors.New("ContentLogic.Delete.ContentStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	l.removeBody(l.ctx, record.BodyKey)
	return nil
}

type ShareContentArgs struct {
	CustomSlug string
	IsPublic   *bool
}

// Share 为已有内容获取分享标识，重复调用返回同一组标识
func (l *ContentLogic) Share(id string, args ShareContentArgs) (share.Identifiers, error) {
	record, err := l.getOwned("ContentLogic.Share", id, srv.PermissionChief)
	if err != nil {
		return share.Identifiers{}, err
	}

	ids, err := l.core.Sharer().CreateOrShare(l.ctx, *record, share.ShareOptions{
		CustomSlug: args.CustomSlug,
		IsPublic:   args.IsPublic,
	})
	if err != nil {
		return share.Identifiers{}, shareError("ContentLogic.Share.CreateOrShare", err)
	}
	return ids, nil
}

// ListOwned 作者视角的列表，包含被屏蔽与已过期的内容
func (l *ContentLogic) ListOwned(contentType types.ContentType, page, pageSize uint64) ([]types.OwnerContentItem, int64, error) {
	opts := types.ListContentOptions{
		OwnerID: l.GetUserInfo().User,
		Type:    contentType,
	}

	list, err := l.core.Store().ContentStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ContentLogic.ListOwned.ContentStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ContentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("ContentLogic.ListOwned.ContentStore.Total", i18n.ERROR_INTERNAL, err)
	}

	now := types.GetCurrentMilli()
	return lo.Map(list, func(item types.Content, _ int) types.OwnerContentItem {
		return types.OwnerContentItem{
			ContentSummary: item.Summary(),
			ID:             item.ID,
			ShareCode:      item.ShareCode,
			Permission:     item.Permission,
			IsBlocked:      item.IsBlocked,
			IsExpired:      item.ExpiresAt != 0 && item.ExpiresAt <= now,
			AccessCount:    item.AccessCount,
			ExpiresAt:      item.ExpiresAt,
		}
	}), total, nil
}
