package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/backoffice-api/api/swagger"
	"github.com/campushq/backoffice-api/internal/handler"
	"github.com/campushq/backoffice-api/internal/middleware"
	"github.com/campushq/backoffice-api/internal/models"
	"github.com/campushq/backoffice-api/internal/repository"
	"github.com/campushq/backoffice-api/internal/service"
	"github.com/campushq/backoffice-api/pkg/cache"
	"github.com/campushq/backoffice-api/pkg/config"
	"github.com/campushq/backoffice-api/pkg/database"
	"github.com/campushq/backoffice-api/pkg/logger"
	corsmiddleware "github.com/campushq/backoffice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/backoffice-api/pkg/middleware/requestid"
)

// @title Campus Back Office API
// @version 1.0.0
// @description Student management back office: auth, enrollment, grades, tuition, catalog.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	classRepo := repository.NewClassRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "backoffice-api",
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, studentRepo, enrollmentRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, nil, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, courseRepo, userRepo, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, userRepo, cfg.Exports.Enabled, nil, logr)
	newsSvc := service.NewNewsService(newsRepo, nil, logr)
	classSvc := service.NewClassService(classRepo, courseRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, classRepo, courseRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, courseRepo, newsRepo, scheduleRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)
	classHandler := handler.NewClassHandler(classSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.PUT("/auth/password", authHandler.ChangePassword)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/dashboard", dashboardHandler.Summary)

		news := authed.Group("/news")
		news.GET("", newsHandler.List)
		news.GET("/:id", newsHandler.Get)
		news.POST("", middleware.Audit(userRepo, "CREATE", "news"), newsHandler.Create)
		news.PUT("/:id", middleware.Audit(userRepo, "UPDATE", "news"), newsHandler.Update)
		news.DELETE("/:id", middleware.Audit(userRepo, "DELETE", "news"), newsHandler.Delete)

		users := authed.Group("/users")
		users.Use(middleware.RequireRoles(models.RoleAdmin))
		users.GET("", userHandler.List)
		users.POST("", middleware.Audit(userRepo, "CREATE", "user"), userHandler.Create)

		students := authed.Group("/students")
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", middleware.Audit(userRepo, "CREATE", "student"), studentHandler.Create)
		students.PUT("/:id", middleware.Audit(userRepo, "UPDATE", "student"), studentHandler.Update)
		students.DELETE("/:id", middleware.Audit(userRepo, "DELETE", "student"), studentHandler.Delete)

		courses := authed.Group("/courses")
		courses.GET("", courseHandler.Catalog)
		courses.GET("/my", middleware.RequireRoles(models.RoleStudent), enrollmentHandler.MyCourses)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "CREATE", "course"), courseHandler.Create)
		courses.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "UPDATE", "course"), courseHandler.Update)
		courses.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "DELETE", "course"), courseHandler.Delete)

		enrollments := authed.Group("/enrollments")
		enrollments.Use(middleware.RequireRoles(models.RoleStudent))
		enrollments.POST("", enrollmentHandler.Enroll)
		enrollments.DELETE("/:courseId", enrollmentHandler.Drop)

		grades := authed.Group("/grades")
		grades.GET("", gradeHandler.List)
		grades.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer), gradeHandler.Submit)
		grades.PUT("/:id/confirm", middleware.RequireRoles(models.RoleAdmin), gradeHandler.Confirm)

		payments := authed.Group("/payments")
		payments.GET("", paymentHandler.List)
		payments.GET("/summary", paymentHandler.Summary)
		payments.GET("/export", middleware.RequireRoles(models.RoleAdmin), paymentHandler.Export)
		payments.POST("", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "CREATE", "payment"), paymentHandler.Create)
		payments.PUT("/:id/confirm", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), paymentHandler.Confirm)

		classes := authed.Group("/classes")
		classes.GET("", classHandler.List)
		classes.GET("/:id", classHandler.Get)
		classes.GET("/:id/courses", classHandler.CourseLinks)
		classes.POST("", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "CREATE", "class"), classHandler.Create)
		classes.POST("/:id/courses", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "ASSIGN", "class"), classHandler.AssignCourse)

		schedules := authed.Group("/schedules")
		schedules.GET("", scheduleHandler.List)
		schedules.POST("", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "CREATE", "schedule"), scheduleHandler.Create)

		exams := authed.Group("/exams")
		exams.GET("", scheduleHandler.ListExams)
		exams.POST("", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, "CREATE", "exam"), scheduleHandler.CreateExam)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
