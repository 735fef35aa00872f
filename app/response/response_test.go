package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(ProvideResponseLocalizer(i18n.NewLocalizer(i18n.DEFAULT_LANG, "zh-CN")), NewResponse())
	return e
}

func Test_APISuccess(t *testing.T) {
	e := newEngine()
	e.GET("/ok", func(c *gin.Context) {
		APISuccess(c, map[string]string{"hello": "world"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "req-1", res.Meta.RequestID)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}

func Test_APIError(t *testing.T) {
	e := newEngine()
	e.GET("/missing", func(c *gin.Context) {
		APIError(c, errors.New("test", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound))
	})
	e.GET("/plain", func(c *gin.Context) {
		APIError(c, assert.AnError)
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var res Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, http.StatusNotFound, res.Meta.Code)
	assert.NotEmpty(t, res.Meta.RequestID)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// 非业务错误不会把内部错误信息返回给调用方
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func Test_GetLangFromRequestOrDefault(t *testing.T) {
	cases := map[string]string{
		"":                     "en",
		"zh":                   "zh-CN",
		"zh-TW,en;q=0.5":       "zh-CN",
		"fr;q=0.9,en-US;q=0.8": "en",
		"de":                   "en",
	}
	for header, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Accept-Language", header)
		assert.Equal(t, want, GetLangFromRequestOrDefault(c), header)
	}
}
