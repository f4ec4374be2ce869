package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	handlerPlaces "github.com/shareplaces/backend/api/handler/places"
	handlerUsers "github.com/shareplaces/backend/api/handler/users"
	"github.com/shareplaces/backend/api/middleware"
	"github.com/shareplaces/backend/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var startTime = time.Now()

// 启动gin
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := config.Get()
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

	// 限制上传文件大小，预留表单字段空间
	router.MaxMultipartMemory = cfg.UploadMaxSizeBytes + 1<<20

	// 认证相关接口限流
	rl := cfg.RateLimitAuthRPS
	authRateLimiter := middleware.NewIPRateLimiter(rl, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
	}

	router.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps),
				"cache":    checkCacheHealth(deps),
				"storage":  checkStorageHealth(deps),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpStatus, health)
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	if cfg.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 创建处理器（依赖注入）
	placesHandler := handlerPlaces.NewHandler(deps.PlacesService)
	usersHandler := handlerUsers.NewHandler(deps.UsersService)

	bufferUpload := middleware.BufferUpload("image", cfg.UploadMaxSizeBytes, deps.Janitor)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(c *gin.Context) { // 所有API禁止缓存
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	{
		usersGroup := apiGroup.Group("/users")
		{
			usersGroup.GET("", usersHandler.GetUsers) // GET /api/users

			authSensitive := usersGroup.Group("")
			authSensitive.Use(authRateLimiter.Middleware())
			{
				authSensitive.POST("/register", bufferUpload, usersHandler.Register) // POST /api/users/register
				authSensitive.POST("/login", usersHandler.Login)                     // POST /api/users/login
				authSensitive.POST("/forgot-password", usersHandler.ForgotPassword)  // POST /api/users/forgot-password
				authSensitive.PUT("/reset-password",
					middleware.ResetPasswordAuth(deps.JWTService, deps.UsersRepo),
					usersHandler.ResetPassword) // PUT /api/users/reset-password
			}

			usersGroup.PUT("/:userId",
				middleware.JWTAuth(deps.JWTService),
				bufferUpload,
				usersHandler.UpdateUser) // PUT /api/users/{userId}
		}

		placesGroup := apiGroup.Group("/places")
		{
			// 无需认证的读取接口
			placesGroup.GET("/:placeId", placesHandler.GetPlace)          // GET /api/places/{placeId}
			placesGroup.GET("/user/:userId", placesHandler.GetPlacesByUser) // GET /api/places/user/{userId}

			authed := placesGroup.Group("")
			authed.Use(middleware.JWTAuth(deps.JWTService))
			{
				authed.GET("", placesHandler.GetPlaces)                        // GET /api/places
				authed.POST("", bufferUpload, placesHandler.CreatePlace)       // POST /api/places
				authed.PUT("/:placeId", bufferUpload, placesHandler.UpdatePlace) // PUT /api/places/{placeId}
				authed.DELETE("/:placeId", placesHandler.DeletePlace)          // DELETE /api/places/{placeId}
				authed.PUT("/:placeId/like", placesHandler.LikePlace)          // PUT /api/places/{placeId}/like
			}
		}
	}

	return router, cleanup
}
