package core

import (
	"net/http"
	"time"

	accountHandler "github.com/anoixa/image-share/api/handler/account"
	galleryHandler "github.com/anoixa/image-share/api/handler/gallery"
	generateHandler "github.com/anoixa/image-share/api/handler/generate"
	"github.com/anoixa/image-share/api/middleware"
	"github.com/anoixa/image-share/config"
	"github.com/anoixa/image-share/internal/app"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// 启动 gin
func setupRouter(container *app.Container) (*gin.Engine, func()) {
	cfg := container.Config
	router := gin.New()

	// 全局中间件
	// 仅在开发版本时启用 gin 日志
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 请求体大小限制
	router.Use(middleware.MaxBytesReader(int64(cfg.MaxBodySizeMB) << 20))

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
	}

	router.GET("/health", healthHandler(container))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GetMetrics())
	})

	// 创建处理器（依赖注入）
	accounts := accountHandler.NewHandler(container.AuthService)
	galleries := galleryHandler.NewHandler(container.GalleryService)
	generation := generateHandler.NewHandler(container.GenerateClient)

	// 账户接口
	router.POST("/register", authRateLimiter.Middleware(), accounts.Register) // POST /register
	router.POST("/login", authRateLimiter.Middleware(), accounts.Login)       // POST /login

	apiGroup := router.Group("/api")
	apiGroup.Use(func(c *gin.Context) { // 所有API禁止缓存
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	apiGroup.Use(apiRateLimiter.Middleware())
	{
		apiGroup.POST("/save", galleries.SaveImage)         // POST /api/save
		apiGroup.GET("/public", galleries.ListPublicImages) // GET /api/public
		apiGroup.GET("/user", galleries.ListUserImages)     // GET /api/user
		apiGroup.POST("/like", galleries.LikeImage)         // POST /api/like
		apiGroup.POST("/unlike", galleries.UnlikeImage)     // POST /api/unlike
		apiGroup.POST("/comment", galleries.CommentImage)   // POST /api/comment
		apiGroup.GET("/isliked", galleries.IsLiked)         // GET /api/isliked

		protected := apiGroup.Group("")
		protected.Use(middleware.RequireJWT(container.JWTService()))
		{
			protected.POST("/generate", generation.Generate) // POST /api/generate
			protected.GET("/thumbnail", galleries.Thumbnail) // GET /api/thumbnail
		}
	}

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(container *app.Container) (*http.Server, func()) {
	cfg := container.Config
	router, clean := setupRouter(container)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
