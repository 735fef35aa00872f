package service

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leafshare/leafshare/app/core"
	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/response"
	"github.com/leafshare/leafshare/cmd/service/handler"
	"github.com/leafshare/leafshare/cmd/service/middleware"
	"github.com/leafshare/leafshare/pkg/metrics"
)

//go:embed tpls/*.html
var tpls embed.FS

// serve 阻塞直到 ctx 结束，然后优雅关闭
func serve(ctx context.Context, core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	server := &http.Server{
		Addr:    core.Cfg().Addr,
		Handler: core.HttpEngine(),
	}

	go func() {
		slog.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server exited", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown http server", slog.String("error", err.Error()))
	}
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery(), middleware.ApiMetrics(s.Core))
	s.Engine.SetHTMLTemplate(template.Must(template.ParseFS(tpls, "tpls/*.html")))
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), response.NewResponse(), middleware.AcceptLanguage())
	s.Engine.Use(middleware.SetAppid(s.Core))
	s.Engine.GET("/share/:identifier", ipLimit("share_page"), middleware.PageAuth(s.Core), s.BuildSharePage)

	s.Engine.Use(middleware.Cors)
	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/mode", func(c *gin.Context) {
			response.APISuccess(c, s.Core.Plugins.Name())
		})

		share := apiV1.Group("/share")
		{
			share.Use(ipLimit("share"), middleware.OptionalAuth(s.Core))
			share.GET("/:identifier", s.ResolveShare)
			share.GET("/:identifier/tree", s.ListShareTree)
		}
		apiV1.GET("/explore", ipLimit("explore"), s.Explore)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		content := authed.Group("/content")
		{
			content.GET("/list", s.ListContent)
			content.POST("", userLimit("modify_content"), s.CreateContent)
			content.GET("/:id", s.GetContent)
			content.PUT("/:id", userLimit("modify_content"), s.UpdateContent)
			content.DELETE("/:id", s.DeleteContent)
			content.POST("/:id/share", userLimit("modify_content"), s.ShareContent)
		}

		moderation := authed.Group("/moderation")
		{
			moderation.Use(middleware.VerifyAdminPermission(s.Core))
			moderation.PUT("/content/:id/block", s.BlockContent)
			moderation.DELETE("/content/:id/block", s.UnblockContent)
		}
	}
}
