package app

import (
	"learngenix_backend/docs"
	"learngenix_backend/internal/config"
	"learngenix_backend/internal/middleware"
	"learngenix_backend/internal/model"
	"learngenix_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = cfg.Server.APIPrefix
	docs.SwaggerInfo.Title = cfg.Server.ProjectName
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.health.Root)
	router.GET("/health", c.health.HealthCheck)

	api := router.Group(cfg.Server.APIPrefix)
	auth := middleware.AuthMiddleware(s.auth)

	registerAuthRoutes(api, c, auth)
	registerExerciseRoutes(api, c, auth)
	registerDashboardRoutes(api, c, auth)
}

func registerAuthRoutes(api *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	group := api.Group("/auth")
	{
		group.POST("/register", c.auth.Register)
		group.POST("/login", c.auth.Login)
		group.POST("/resend-confirmation", c.auth.ResendConfirmation)

		me := group.Group("/me", auth)
		me.GET("", c.auth.Me)
		me.PUT("", c.auth.UpdateMe)
		me.POST("/avatar", c.auth.UploadAvatar)

		group.GET("/users", auth, middleware.RoleMiddleware(model.Admin), c.auth.ListUsers)
	}
}

func registerExerciseRoutes(api *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	group := api.Group("/exercises")
	{
		group.GET("", c.exercise.List)
		group.GET("/:id", c.exercise.Get)

		// 以下需要登录
		group.POST("", auth, c.exercise.Create)
		group.PUT("/:id", auth, c.exercise.Update)
		group.DELETE("/:id", auth, c.exercise.Delete)
		group.POST("/next", auth, c.exercise.Next)
		group.POST("/submit", auth, c.exercise.Submit)
	}
}

func registerDashboardRoutes(api *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	group := api.Group("/dashboard")

	// 学生/通用 授权接口
	group.GET("/summary", auth, c.dashboard.Summary)
	group.GET("/progress", auth, c.dashboard.Progress)
	group.GET("/stats", auth, c.dashboard.Stats)

	// 目录数据公开可读，写操作限教师与管理员
	write := []gin.HandlerFunc{auth, middleware.RoleMiddleware(model.Teacher)}

	subjects := group.Group("/subjects")
	subjects.GET("", c.subject.List)
	subjects.GET("/:id", c.subject.Get)
	subjects.POST("", append(write, c.subject.Create)...)
	subjects.PUT("/:id", append(write, c.subject.Update)...)
	subjects.DELETE("/:id", append(write, c.subject.Delete)...)

	topics := group.Group("/topics")
	topics.GET("", c.topic.List)
	topics.GET("/:id", c.topic.Get)
	topics.POST("", append(write, c.topic.Create)...)
	topics.PUT("/:id", append(write, c.topic.Update)...)
	topics.DELETE("/:id", append(write, c.topic.Delete)...)

	achievements := group.Group("/achievements")
	achievements.GET("", c.achievement.List)
	achievements.GET("/:id", c.achievement.Get)
	achievements.POST("", append(write, c.achievement.Create)...)
	achievements.PUT("/:id", append(write, c.achievement.Update)...)
	achievements.DELETE("/:id", append(write, c.achievement.Delete)...)
}
