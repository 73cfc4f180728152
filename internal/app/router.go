package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录对游客可见，登录用户附带活跃度记录
		catalog := public.Group("/")
		catalog.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
		{
			catalog.GET("/courses", c.course.ListCourses)
			catalog.GET("/courses/:id", c.course.GetCourse)
			catalog.GET("/lessons/:id", c.course.GetLesson)
			catalog.GET("/lessons/:id/assessments", c.assessment.ListAssessments)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)

	// 作答
	rg.GET("/assessments/:id", c.assessment.GetAssessment)
	rg.POST("/assessments/:id/attempts", c.attempt.Start)
	rg.POST("/assessments/:id/retake", c.attempt.Retake)
	rg.GET("/attempts", c.attempt.ListMine)
	rg.PUT("/attempts/:id/answers", c.attempt.SaveAnswer)
	rg.POST("/attempts/:id/submit", c.attempt.Submit)
	rg.GET("/attempts/:id/review", c.attempt.Review)

	// 项目评估提交文件
	rg.POST("/content/submissions", c.content.UploadSubmission)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		// 课程树编辑
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/modules", c.course.AddModule)
		instructor.PUT("/courses/:id/modules/reorder", c.course.ReorderModules)
		instructor.PUT("/modules/:id", c.course.UpdateModule)
		instructor.DELETE("/modules/:id", c.course.DeleteModule)
		instructor.POST("/modules/:id/lessons", c.course.AddLesson)
		instructor.PUT("/modules/:id/lessons/reorder", c.course.ReorderLessons)
		instructor.PUT("/lessons/:id", c.course.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.course.DeleteLesson)

		// 评估与题库编辑
		instructor.POST("/lessons/:id/assessments", c.assessment.CreateAssessment)
		instructor.PUT("/assessments/:id", c.assessment.UpdateAssessment)
		instructor.DELETE("/assessments/:id", c.assessment.DeleteAssessment)
		instructor.POST("/assessments/:id/questions", c.assessment.AddQuestion)
		instructor.PUT("/assessments/:id/questions/reorder", c.assessment.ReorderQuestions)
		instructor.PUT("/questions/:id", c.assessment.UpdateQuestion)
		instructor.DELETE("/questions/:id", c.assessment.DeleteQuestion)

		// 人工给分
		instructor.GET("/assessments/:id/grading", c.attempt.ListPendingGrading)
		instructor.PUT("/attempts/:id/grade", c.attempt.Grade)

		// 课件媒体上传
		instructor.POST("/content/images", c.content.UploadImage)
		instructor.POST("/content/videos", c.content.UploadVideo)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin), middleware.ActivityMiddleware(repos.user))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.PUT("/users/:id/password", c.user.ResetPassword)
		admin.DELETE("/users/:id", c.user.DeleteUser)
	}
}
