package app

import (
	"skill_portal_backend/docs"
	"skill_portal_backend/internal/middleware"
	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/monitoring"
	"skill_portal_backend/pkg/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const maxBodyBytes = 1 << 20

func (a *App) registerRoutes(router *gin.Engine, c *controllers, tokens *util.TokenCodec) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/healthz", c.health.Liveness)

	authn := middleware.RequireAuth(tokens)
	csrf := middleware.RequireCSRF()
	admin := middleware.RequireRole(model.RoleAdmin)

	// 导出的题库含正确答案，仅管理员可下载
	if local, ok := a.Storage.(*storage.LocalProvider); ok {
		router.Group("", authn, admin).Static("/exports", local.Root)
	}

	api := router.Group("/api")
	api.Use(a.limiter.Middleware(), middleware.BodyLimit(maxBodyBytes), middleware.AttachCSRFToken(a.Config.Cookie))
	api.GET("/health", c.health.HealthCheck)

	// 1. 认证
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/refresh", csrf, c.auth.Refresh)
		auth.GET("/me", authn, c.auth.Me)
		auth.POST("/logout", csrf, authn, c.auth.Logout)
	}

	// 2. 需要登录的接口；CSRF 校验先于登录校验
	users := api.Group("/users", csrf, authn, admin)
	users.GET("", c.user.List)
	users.POST("", c.user.Create)
	users.GET("/:id", c.user.Get)
	users.PATCH("/:id", c.user.Update)
	users.DELETE("/:id", c.user.Delete)

	skills := api.Group("/skills", csrf, authn)
	skills.GET("", c.skill.List)
	skills.GET("/:id", c.skill.Get)
	skills.POST("", admin, c.skill.Create)
	skills.PATCH("/:id", admin, c.skill.Update)
	skills.DELETE("/:id", admin, c.skill.Delete)

	questions := api.Group("/questions", csrf, authn)
	questions.GET("", c.question.List)
	questions.GET("/:id", c.question.Get)
	questions.POST("", admin, c.question.Create)
	questions.POST("/export", admin, c.question.Export)
	questions.PATCH("/:id", admin, c.question.Update)
	questions.DELETE("/:id", admin, c.question.Delete)

	quiz := api.Group("/quiz", csrf, authn)
	quiz.POST("/attempts", c.quiz.Submit)
	quiz.GET("/attempts", c.quiz.ListAttempts)
	quiz.GET("/attempts/:id", c.quiz.GetAttempt)
	quiz.GET("/skills/:skillId/questions", c.quiz.SkillQuestions)

	reports := api.Group("/reports", authn)
	reports.GET("/user/:userId/performance", c.report.Performance)
	reports.GET("/user/:userId/skill-gaps", c.report.SkillGaps)
}
