package router

import (
	"context"
	"time"

	"github.com/classmark/gradebook/internal/config"
	"github.com/classmark/gradebook/internal/handler"
	"github.com/classmark/gradebook/internal/middleware"
	"github.com/classmark/gradebook/internal/response"
	"github.com/classmark/gradebook/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Class      *handler.ClassHandler
	Assignment *handler.AssignmentHandler
	Student    *handler.StudentHandler
	Health     *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of background helpers such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality: 5,
		Skipper: func(c *gin.Context) bool { return c.FullPath() == "/health" },
	}))

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)
	requireJWT := middleware.RequireJWT(authService)

	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/refresh", requireJWT, handlers.Auth.Refresh)
		auth.POST("/logout", requireJWT, handlers.Auth.Logout)
		auth.GET("/me", requireJWT, middleware.NoStore(), handlers.Auth.Me)
	}

	// ─── 2. Teacher Group (JWT + teacher role) ─────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(requireJWT, middleware.RequireTeacher(), middleware.NoStore())
	{
		teacherAPI.GET("/classes", handlers.Class.ListClasses)
		teacherAPI.POST("/classes", handlers.Class.CreateClass)
		teacherAPI.GET("/classes/:name", handlers.Class.GetClass)
		teacherAPI.DELETE("/classes/:name", handlers.Class.DeleteClass)
		teacherAPI.PATCH("/classes/:name/roster", handlers.Class.ModifyRoster)

		teacherAPI.GET("/assignments", handlers.Assignment.ListAssignments)
		teacherAPI.POST("/assignments", handlers.Assignment.CreateAssignment)
		teacherAPI.GET("/assignments/:id", handlers.Assignment.GetAssignment)
		teacherAPI.PUT("/assignments/:id", handlers.Assignment.UpdateAssignment)
		teacherAPI.DELETE("/assignments/:id", handlers.Assignment.DeleteAssignment)
		teacherAPI.POST("/assignments/:id/students", handlers.Assignment.AppendStudents)
		teacherAPI.PUT("/assignments/:id/grades/:student_id", handlers.Assignment.RecordGrade)
	}

	// ─── 3. Student Group (JWT + student role) ─────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(requireJWT, middleware.RequireStudent(), middleware.NoStore())
	{
		studentAPI.GET("/assignments", handlers.Student.GetAssignments)
	}

	return router
}
