package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"
	ERROR_INVALID_TOKEN     = "error.invalid.token"

	ERROR_INVALID_TITLE          = "error.share.invalid_title"
	ERROR_INVALID_CUSTOM_SLUG    = "error.share.invalid_custom_slug"
	ERROR_SLUG_TAKEN             = "error.share.slug_taken"
	ERROR_SLUG_EXHAUSTED         = "error.share.slug_exhausted"
	ERROR_INVALID_PERMISSION     = "error.share.invalid_permission"
	ERROR_INVALID_PATH           = "error.share.invalid_path"
	ERROR_INVALID_CONTENT_TYPE   = "error.content.invalid_type"
	ERROR_INVALID_EXPIRES_AT     = "error.content.invalid_expires_at"
	ERROR_CONTENT_BODY_TOO_LARGE = "error.content.body_too_large"

	MESSAGE_CONTENT_BLOCKED   = "message.moderation.blocked"
	MESSAGE_CONTENT_UNBLOCKED = "message.moderation.unblocked"
)
