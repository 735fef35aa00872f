package v1

import (
	"log/slog"
	"net/http"

	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/share"
)

// shareError 将引擎错误转换为带 http 状态码的业务错误
func shareError(trace string, err error) *errors.CustomizedError {
	switch {
	case errors.Is(err, share.ErrNotFound):
		return errors.New(trace, i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	case errors.Is(err, share.ErrInvalidTitle):
		return errors.New(trace, i18n.ERROR_INVALID_TITLE, err).Code(http.StatusBadRequest)
	case errors.Is(err, share.ErrInvalidCustomSlug):
		return errors.New(trace, i18n.ERROR_INVALID_CUSTOM_SLUG, err).Code(http.StatusBadRequest)
	case errors.Is(err, share.ErrInvalidPermission):
		return errors.New(trace, i18n.ERROR_INVALID_PERMISSION, err).Code(http.StatusBadRequest)
	case errors.Is(err, share.ErrInvalidPath):
		return errors.New(trace, i18n.ERROR_INVALID_PATH, err).Code(http.StatusBadRequest)
	case errors.Is(err, share.ErrMissingID):
		return errors.New(trace, i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	case errors.Is(err, share.ErrSlugTaken):
		return errors.New(trace, i18n.ERROR_SLUG_TAKEN, err).Code(http.StatusConflict)
	case errors.Is(err, share.ErrSlugGenerationExhausted):
		slog.Error("identifier generation exhausted", slog.String("trace", trace))
		return errors.New(trace, i18n.ERROR_SLUG_EXHAUSTED, err)
	default:
		return errors.New(trace, i18n.ERROR_INTERNAL, err)
	}
}
