package types

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Permission 内容的访问级别
type Permission string

const (
	PERMISSION_PUBLIC   Permission = "public"
	PERMISSION_UNLISTED Permission = "unlisted"
	PERMISSION_PRIVATE  Permission = "private"
)

func (p Permission) Valid() bool {
	switch p {
	case PERMISSION_PUBLIC, PERMISSION_UNLISTED, PERMISSION_PRIVATE:
		return true
	default:
		return false
	}
}

// Discoverable 只有 public 内容会出现在列表/搜索中
func (p Permission) Discoverable() bool {
	return p == PERMISSION_PUBLIC
}

func (p Permission) String() string {
	return string(p)
}

type ContentType string

const (
	CONTENT_TYPE_FILE   ContentType = "file"
	CONTENT_TYPE_FOLDER ContentType = "folder"
)

func (t ContentType) Valid() bool {
	return t == CONTENT_TYPE_FILE || t == CONTENT_TYPE_FOLDER
}

const ROOT_PATH = "/"

// Content 可分享的内容记录，expires_at 为毫秒时间戳，0 表示永不过期
type Content struct {
	ID          string      `json:"id" db:"id"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	Title       string      `json:"title" db:"title"`
	Body        string      `json:"body" db:"body"`
	BodyKey     string      `json:"-" db:"body_key"`
	Slug        string      `json:"slug" db:"slug"`
	ShareCode   string      `json:"share_code" db:"share_code"`
	Permission  Permission  `json:"permission" db:"permission"`
	IsBlocked   bool        `json:"is_blocked" db:"is_blocked"`
	ExpiresAt   int64       `json:"expires_at" db:"expires_at"`
	AccessCount int64       `json:"access_count" db:"access_count"`
	Path        string      `json:"path" db:"path"`
	Type        ContentType `json:"type" db:"type"`
	Size        int64       `json:"size" db:"size"`
	CreatedAt   int64       `json:"created_at" db:"created_at"`
	UpdatedAt   int64       `json:"updated_at" db:"updated_at"`
}

func (c *Content) HasIdentifiers() bool {
	return c.Slug != "" && c.ShareCode != ""
}

func (c *Content) IsFolder() bool {
	return c.Type == CONTENT_TYPE_FOLDER
}

// ExpiresAtTime 返回过期时间，未设置时返回 nil
func (c *Content) ExpiresAtTime() *time.Time {
	if c.ExpiresAt == 0 {
		return nil
	}
	t := time.UnixMilli(c.ExpiresAt)
	return &t
}

// ContentView 对外展示的内容投影，不包含 is_blocked 等内部字段
type ContentView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Body        string      `json:"body,omitempty"`
	BodyKey     string      `json:"-"`
	Slug        string      `json:"slug"`
	ShareCode   string      `json:"share_code,omitempty"`
	Permission  Permission  `json:"permission"`
	Type        ContentType `json:"type"`
	Path        string      `json:"path"`
	OwnerName   string      `json:"owner_name"`
	IsOwner     bool        `json:"is_owner"`
	AccessCount int64       `json:"access_count"`
	ExpiresAt   int64       `json:"expires_at,omitempty"`
	CreatedAt   int64       `json:"created_at"`
	UpdatedAt   int64       `json:"updated_at"`
}

// ContentSummary 目录列表项，不携带正文
type ContentSummary struct {
	Name      string      `json:"name"`
	Type      ContentType `json:"type"`
	Size      int64       `json:"size"`
	Slug      string      `json:"slug"`
	Path      string      `json:"path"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
}

func (c *Content) Summary() ContentSummary {
	return ContentSummary{
		Name:      c.Title,
		Type:      c.Type,
		Size:      c.Size,
		Slug:      c.Slug,
		Path:      c.Path,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// OwnerContentItem 作者视角的列表项，包含屏蔽与过期状态
type OwnerContentItem struct {
	ContentSummary
	ID          string     `json:"id"`
	ShareCode   string     `json:"share_code"`
	Permission  Permission `json:"permission"`
	IsBlocked   bool       `json:"is_blocked"`
	IsExpired   bool       `json:"is_expired"`
	AccessCount int64      `json:"access_count"`
	ExpiresAt   int64      `json:"expires_at"`
}

type ListContentOptions struct {
	OwnerID        string
	Type           ContentType
	Permission     Permission
	ExcludeBlocked bool
	// LiveAt 非 0 时只返回在该毫秒时间点仍然有效的内容
	LiveAt int64
	// ExpiredBefore 非 0 时只返回在该时间点之前已过期的内容
	ExpiredBefore int64
}

func (opts ListContentOptions) Apply(query *sq.SelectBuilder) {
	if opts.OwnerID != "" {
		*query = query.Where(sq.Eq{"owner_id": opts.OwnerID})
	}
	if opts.Type != "" {
		*query = query.Where(sq.Eq{"type": opts.Type})
	}
	if opts.Permission != "" {
		*query = query.Where(sq.Eq{"permission": opts.Permission})
	}
	if opts.ExcludeBlocked {
		*query = query.Where(sq.Eq{"is_blocked": false})
	}
	if opts.LiveAt > 0 {
		*query = query.Where(sq.Or{
			sq.Eq{"expires_at": 0},
			sq.Gt{"expires_at": opts.LiveAt},
		})
	}
	if opts.ExpiredBefore > 0 {
		*query = query.Where(sq.And{
			sq.Gt{"expires_at": 0},
			sq.LtOrEq{"expires_at": opts.ExpiredBefore},
		})
	}
}

type UpdateContentArgs struct {
	Title      *string
	Body       *string
	BodyKey    *string
	Path       *string
	Permission *Permission
	ExpiresAt  *int64
	Size       *int64
}

// GetCurrentMilli 当前毫秒时间戳（便于测试时mock）
var GetCurrentMilli = func() int64 {
	return time.Now().UnixMilli()
}
