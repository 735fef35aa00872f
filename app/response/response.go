package response

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/utils"
)

func ProvideResponseLocalizer(l i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("i18n", l)
	}
}

func InjectResponseLocalizer(c *gin.Context) i18n.Localizer {
	return c.MustGet("i18n").(i18n.Localizer)
}

// 常量定义
const (
	RequestIDKey    = "request_id"
	ResponseKey     = "response_key"
	RequestIDHeader = "X-Request-Id"
	UserKey         = "user"
)

// Response 响应结构体定义
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

// Meta 响应meta定义
type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ListResponse[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}

// GetLangFromRequestOrDefault 按 Accept-Language 权重选出第一个支持的语言
func GetLangFromRequestOrDefault(c *gin.Context) string {
	for _, lang := range utils.ParseAcceptLanguage(c.Request.Header.Get("Accept-Language")) {
		tag := lang.Tag
		if strings.EqualFold(tag, "zh") || strings.HasPrefix(strings.ToLower(tag), "zh-") {
			tag = "zh-CN"
		}
		if i18n.ALLOW_LANG[tag] {
			return tag
		}
		if base, _, ok := strings.Cut(tag, "-"); ok && i18n.ALLOW_LANG[base] {
			return base
		}
	}
	return i18n.DEFAULT_LANG
}

// APIError api响应失败
func APIError(c *gin.Context, err error) {
	c.Abort()
	l := InjectResponseLocalizer(c)

	res := c.MustGet(ResponseKey).(*Response)
	var cerr *errors.CustomizedError
	if !errors.As(err, &cerr) {
		res.Meta.Code = http.StatusInternalServerError
		res.Meta.Message = l.Get(GetLangFromRequestOrDefault(c), i18n.ERROR_INTERNAL)
	} else {
		res.Meta.Code = errors.HttpCode(cerr)
		res.Meta.Message = l.Get(GetLangFromRequestOrDefault(c), cerr.Message())
		if data := cerr.Data(); data != nil {
			res.Data = data
		}
	}

	c.JSON(res.Meta.Code, res)
	printErrorLog(c, res, err)
}

func printErrorLog(c *gin.Context, res *Response, err error) {
	attrs := []any{
		slog.String("request_id", res.Meta.RequestID),
		slog.String("method", c.Request.Method),
		slog.String("request_uri", c.Request.URL.Path),
		slog.Int("code", res.Meta.Code),
		slog.String("error", err.Error()),
		slog.Int64("end_time", time.Now().Unix()),
	}
	if uid := c.GetString(UserKey); uid != "" {
		attrs = append(attrs, slog.String("uid", uid))
	}
	slog.Error("response error", attrs...)
}

func printSuccessLog(c *gin.Context, res *Response) {
	attrs := []any{
		slog.String("request_id", res.Meta.RequestID),
		slog.String("method", c.Request.Method),
		slog.String("request_uri", c.Request.URL.Path),
		slog.String("params", c.Request.URL.Query().Encode()),
		slog.Int64("end_time", time.Now().Unix()),
	}
	if uid := c.GetString(UserKey); uid != "" {
		attrs = append(attrs, slog.String("uid", uid))
	}
	slog.Info("request success", attrs...)
}

// APISuccess api响应成功
func APISuccess(c *gin.Context, response interface{}) {
	c.Abort()
	res := c.MustGet(ResponseKey).(*Response)
	if response != nil {
		res.Data = response
	}
	c.JSON(http.StatusOK, res)
	printSuccessLog(c, res)
}

// NewResponse 为每个请求准备响应体，沿用上游传入的 X-Request-Id
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Set(ResponseKey, &Response{
			Meta: Meta{
				Code:      http.StatusOK,
				RequestID: requestID,
			},
		})
	}
}

// GetRequestID 获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
