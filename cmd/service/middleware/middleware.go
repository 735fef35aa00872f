package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/app/core/srv"
	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/response"
	"github.com/leafshare/leafshare/pkg/auth"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/security"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

// AcceptLanguage 目前服务端支持 en: English, zh-CN: 简体中文
func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := utils.ParseAcceptLanguage(ctx.Request.Header.Get("Accept-Language"))
		if len(res) == 0 {
			ctx.Set(v1.LANGUAGE_KEY, types.LANGUAGE_EN_KEY)
			return
		}

		ctx.Set(v1.LANGUAGE_KEY, lo.If(strings.Contains(res[0].Tag, "zh"), types.LANGUAGE_CN_KEY).Else(types.LANGUAGE_EN_KEY))
	}
}

const (
	ACCESS_TOKEN_HEADER_KEY = "X-Access-Token"
	AUTH_TOKEN_HEADER_KEY   = "X-Authorization"
	BEARER_HEADER_KEY       = "Authorization"
	APPID_HEADER            = "X-Appid"

	accessTokenCacheTTL = 10 * time.Minute
	sessionRenewTTL     = time.Hour * 24 * 7
)

func SetAppid(core *core.Core) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(v1.APPID_KEY, core.DefaultAppid())
	}
}

// authenticator 依次尝试 access token、登录态 token 与身份服务签发的 JWT
type authenticator struct {
	core      *core.Core
	publicKey []byte
}

func newAuthenticator(core *core.Core) *authenticator {
	a := &authenticator{core: core}
	if path := core.Cfg().Security.PublicKeyPath; path != "" {
		key, err := os.ReadFile(path)
		if err != nil {
			panic(err)
		}
		a.publicKey = key
	}
	return a
}

// authenticate 请求未携带任何凭证时返回 false, nil
func (a *authenticator) authenticate(c *gin.Context) (bool, error) {
	if token := c.GetHeader(ACCESS_TOKEN_HEADER_KEY); token != "" {
		return a.parseAccessToken(c, token)
	}
	if token := c.GetHeader(AUTH_TOKEN_HEADER_KEY); token != "" {
		return a.parseAuthToken(c, token)
	}
	if token, ok := bearerToken(c); ok {
		return a.parseBearerToken(c, token)
	}
	return false, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(BEARER_HEADER_KEY)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (a *authenticator) appid(c *gin.Context) string {
	appid, exist := v1.InjectAppid(c)
	if !exist {
		appid = a.core.DefaultAppid()
	}
	return appid
}

func (a *authenticator) parseAccessToken(c *gin.Context, tokenValue string) (bool, error) {
	appid := a.appid(c)
	cache := a.core.Plugins.Cache()

	meta, err := auth.LookupToken(c, cache, auth.KIND_ACCESS_TOKEN, tokenValue)
	if err != nil {
		return false, errors.Trace("parseAccessToken", err)
	}

	if meta == nil {
		token, err := v1.NewAuthLogic(c, a.core).GetAccessTokenDetail(appid, tokenValue)
		if err != nil {
			return false, errors.Trace("parseAccessToken", err)
		}
		if token == nil || token.ExpiresAt < time.Now().Unix() {
			return false, errors.New("parseAccessToken.token.check", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
		}

		meta = &types.UserTokenMeta{
			UserID:   token.UserID,
			Appid:    token.Appid,
			ExpireAt: token.ExpiresAt,
		}
		if err = auth.RememberToken(c, cache, auth.KIND_ACCESS_TOKEN, tokenValue, *meta, accessTokenCacheTTL); err != nil {
			slog.Warn("failed to cache access token", slog.String("error", err.Error()))
		}
	}

	return a.setClaims(c, meta.Appid, meta.UserID, meta.ExpireAt)
}

func (a *authenticator) parseAuthToken(c *gin.Context, tokenValue string) (bool, error) {
	ctx, cancel := context.WithTimeout(c, time.Second*10)
	defer cancel()

	cache := a.core.Plugins.Cache()
	meta, err := auth.ValidateTokenFromCache(ctx, tokenValue, cache)
	if err != nil {
		return false, errors.Trace("parseAuthToken", err)
	}

	if err = cache.Expire(ctx, auth.TokenCacheKey(auth.KIND_SESSION, tokenValue), sessionRenewTTL); err != nil {
		slog.Warn("failed to renew session token", slog.String("error", err.Error()))
	}

	return a.setClaims(c, meta.Appid, meta.UserID, meta.ExpireAt)
}

func (a *authenticator) parseBearerToken(c *gin.Context, tokenValue string) (bool, error) {
	if len(a.publicKey) == 0 {
		return false, errors.New("parseBearerToken.publicKey", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}

	claims, err := security.VerifyToken(tokenValue, a.publicKey)
	if err != nil {
		return false, errors.New("parseBearerToken.VerifyToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized)
	}

	appid := claims.Appid
	if appid == "" {
		appid = a.appid(c)
	}
	return a.setClaims(c, appid, claims.User, claims.ExpireTime)
}

// setClaims 全局角色以数据库为准，不信任 token 中携带的角色
func (a *authenticator) setClaims(c *gin.Context, appid, userID string, expireAt int64) (bool, error) {
	role, err := v1.NewAuthLogic(c, a.core).GetUserGlobalRole(appid, userID)
	if err != nil {
		return false, errors.Trace("setClaims", err)
	}

	c.Set(v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(appid, types.DEFAULT_APPID, userID, role, expireAt))
	c.Set(response.UserKey, userID)
	return true, nil
}

func Authorization(core *core.Core) gin.HandlerFunc {
	a := newAuthenticator(core)
	return func(ctx *gin.Context) {
		matched, err := a.authenticate(ctx)
		if err != nil {
			response.APIError(ctx, errors.Trace("middleware.Authorization", err))
			return
		}

		if !matched {
			response.APIError(ctx, errors.New("middleware.Authorization", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
		}
	}
}

// OptionalAuth 未携带凭证时以匿名访客身份继续
func OptionalAuth(core *core.Core) gin.HandlerFunc {
	a := newAuthenticator(core)
	return func(ctx *gin.Context) {
		if _, err := a.authenticate(ctx); err != nil {
			response.APIError(ctx, errors.Trace("middleware.OptionalAuth", err))
		}
	}
}

// PageAuth 用于 HTML 分享页，凭证无效时按匿名访客继续，由页面自己渲染 404
func PageAuth(core *core.Core) gin.HandlerFunc {
	return newAuthenticator(core).pageAuth
}

func (a *authenticator) pageAuth(c *gin.Context) {
	if _, err := a.authenticate(c); err != nil {
		slog.Debug("invalid credential on page request, continue as anonymous",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
	}
}

// VerifyPermission 按全局角色校验站点级权限
func VerifyPermission(core *core.Core, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := v1.InjectTokenClaim(c)
		if !ok {
			response.APIError(c, errors.New("middleware.VerifyPermission.GetToken", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		if !core.Srv().RBAC().CheckPermission(claims.GetRole(), permission) {
			response.APIError(c, errors.New("middleware.VerifyPermission.Check", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
			return
		}
	}
}

// VerifyAdminPermission 验证管理员权限（admin或chief角色）
func VerifyAdminPermission(core *core.Core) gin.HandlerFunc {
	return VerifyPermission(core, srv.PermissionModerate)
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Access-Token, X-Authorization, X-Appid")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, operation string, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(c, genKeyFunc(c), operation, opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}

// ApiMetrics 记录接口耗时与错误数，api 标签使用路由模板避免基数膨胀
func ApiMetrics(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		api := c.FullPath()
		if api == "" {
			c.Next()
			return
		}

		timer := core.Metrics().ApiResponseTimer(api)
		c.Next()
		timer.ObserveDuration()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			core.Metrics().ApiErrorInc(c.Request.Method, api, status)
		}
	}
}
