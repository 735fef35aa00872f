package share

import "errors"

var (
	ErrInvalidTitle            = errors.New("title has no sluggable characters")
	ErrInvalidCustomSlug       = errors.New("custom slug is invalid")
	ErrSlugTaken               = errors.New("slug is already taken")
	ErrSlugGenerationExhausted = errors.New("slug generation exhausted")
	ErrInvalidPermission       = errors.New("invalid permission")
	ErrInvalidPath             = errors.New("invalid path")
	ErrMissingID               = errors.New("content id is required")

	// ErrNotFound 不存在、被屏蔽、已过期、无权限 统一返回该错误
	ErrNotFound = errors.New("content not found")

	// 存储层在唯一索引冲突时返回以下错误
	ErrDuplicateSlug      = errors.New("duplicate slug")
	ErrDuplicateShareCode = errors.New("duplicate share code")
)
