package v1

import (
	"context"

	"github.com/leafshare/leafshare/pkg/security"
)

const (
	TOKEN_CONTEXT_KEY = "__leaf.access_token"
	LANGUAGE_KEY      = "__leaf.accept_language"
	APPID_KEY         = "__leaf.appid"
)

func InjectAppid(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(APPID_KEY).(string)
	return val, ok
}

// InjectTokenClaim get user/platform token claims from context
func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

// InjectViewerID 匿名访问时返回空字符串
func InjectViewerID(ctx context.Context) string {
	claims, ok := InjectTokenClaim(ctx)
	if !ok {
		return ""
	}
	return claims.User
}
