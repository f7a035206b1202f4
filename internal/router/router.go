package router

import (
	"github.com/wikicore-next/internal/config"
	wikihandlers "github.com/wikicore-next/internal/http/handlers/wiki"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := wikihandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(IdentityMiddleware(cfg.JWT.SecretKey, c.UserRepo))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口，可见性由权限解析层裁决
		apiV1.POST("/auth/login", handler.Login)
		apiV1.GET("/search", handler.Search)
		apiV1.GET("/posts/:id", handler.GetPost)
		apiV1.GET("/posts/:id/revisions", handler.History)
		apiV1.GET("/shared/:uuid", handler.GetSharedPost)

		// 需鉴权接口
		auth := apiV1.Group("")
		auth.Use(RequireAuthMiddleware())
		{
			auth.POST("/posts", handler.CreatePost)
			auth.DELETE("/posts/:id", handler.DeletePost)
			auth.POST("/posts/:id/undelete", handler.UndeletePost)
			auth.PUT("/posts/:id/badges", handler.SetBadges)
			auth.PUT("/posts/:id/tags", handler.SetTags)
			auth.PUT("/posts/:id/grants", handler.SetGrants)
			auth.PUT("/posts/:id/draft", handler.Autosave)
			auth.DELETE("/posts/:id/draft", handler.DiscardDraft)
			auth.POST("/posts/:id/commit", handler.Commit)
			auth.GET("/posts/:id/diff", handler.Diff)
			auth.POST("/posts/:id/reindex", handler.Reindex)
		}
	}

	return r
}
