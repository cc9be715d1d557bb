package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postloop/postloop/config"
	"github.com/postloop/postloop/controllers"
	"github.com/postloop/postloop/middleware"
	"github.com/postloop/postloop/services"
	"github.com/postloop/postloop/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record content page views after each request
	r.Use(middleware.ViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	streakService := services.NewStreakService(db)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db, streakService)
	socialController := controllers.NewSocialController(db)
	streakController := controllers.NewStreakController(db, streakService)
	statsController := controllers.NewStatsController(db)
	categoryController := controllers.NewCategoryController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public read endpoints
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", middleware.AuthOptional(), postController.GetPost)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.POST("/posts/:id/share", middleware.AuthOptional(), postController.SharePost)
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/user/by-username/:username", authController.GetUserByUsername)
	api.GET("/users/:id/posts", postController.ListUserPosts)
	api.GET("/users/:id/followers", socialController.Followers)
	api.GET("/users/:id/following", socialController.Following)
	api.GET("/users/:id/streak", streakController.GetUserStreak)
	api.GET("/users/:id/analytics", statsController.GetUserAnalytics)
	api.GET("/stats", statsController.GetStats)
	api.GET("/categories", categoryController.ListCategories)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/posts", postController.CreatePost)
	protected.PATCH("/posts/:id/visibility", postController.UpdateVisibility)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.DELETE("/comments/:commentId", postController.DeleteComment)
	protected.GET("/users/me/posts", postController.ListMyPosts)
	protected.POST("/users/:id/follow", socialController.Follow)
	protected.DELETE("/users/:id/follow", socialController.Unfollow)
	protected.GET("/users/:id/follow", socialController.FollowStatus)
	protected.POST("/posts/:id/like", socialController.Like)
	protected.DELETE("/posts/:id/like", socialController.Unlike)
	protected.GET("/posts/:id/like", socialController.LikeStatus)
	protected.GET("/streak", streakController.GetMyStreak)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
