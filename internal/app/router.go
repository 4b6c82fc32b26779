package app

import (
	"quizmaster_backend/docs"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/middleware"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.Sessions))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/session", c.auth.CurrentSession)

		a.registerStudentRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/admin/login", c.auth.AdminLogin)
		public.POST("/student/login", c.auth.StudentLogin)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("/student")
	student.Use(middleware.RoleMiddleware(model.RoleStudent))
	{
		student.GET("/dashboard", c.dashboard.StudentDashboard)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/dashboard", c.dashboard.AdminDashboard)
		admin.GET("/analytics", c.dashboard.Analytics)
		admin.GET("/settings", c.dashboard.GetSettings)
		admin.PUT("/settings", c.dashboard.UpdateSettings)

		// 测验
		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes", c.quiz.ListQuizzes)
		admin.GET("/quizzes/:id", c.quiz.GetQuiz)
		admin.POST("/quizzes/:id/export", c.quiz.ExportQuiz)
		admin.DELETE("/quizzes/:id/export", c.quiz.DeleteExport)

		// 测验草稿
		admin.POST("/quiz-drafts", c.quiz.CreateDraft)
		admin.GET("/quiz-drafts/:id", c.quiz.GetDraft)
		admin.PUT("/quiz-drafts/:id", c.quiz.UpdateDraft)
		admin.POST("/quiz-drafts/:id/questions", c.quiz.AddDraftQuestion)
		admin.DELETE("/quiz-drafts/:id/questions/:questionId", c.quiz.RemoveDraftQuestion)
		admin.POST("/quiz-drafts/:id/submit", c.quiz.SubmitDraft)

		// 学生管理
		admin.GET("/students", c.student.ListStudents)
		admin.POST("/students", c.student.CreateStudent)
		admin.DELETE("/students/:id", c.student.DeleteStudent)

		// 本地存储的导出文件（含答案），仅管理员可下载
		if root, ok := a.localFilesRoot(); ok {
			admin.Static("/files", root)
		}
	}
}

func (a *App) localFilesRoot() (string, bool) {
	if a.services == nil || a.services.storage == nil {
		return "", false
	}
	return a.services.storage.LocalRoot()
}
