package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/handler"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Quiz    *handler.QuizHandler
	Student *handler.StudentHandler
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
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

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Separate limiter for code lookups, which are unauthenticated-adjacent
	// and cheap to hammer.
	codeLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), middleware.CheckActiveSession(authService), handlers.Auth.Me)
	}

	// ─── 2. Teacher Group (JWT + Active Session) ───────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(
		middleware.RequireTeacherJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		teacherAPI.GET("/quizzes", handlers.Quiz.ListQuizzes)
		teacherAPI.POST("/quizzes", handlers.Quiz.CreateQuiz)
		teacherAPI.GET("/quizzes/:quiz_id", handlers.Quiz.GetQuiz)
		teacherAPI.PUT("/quizzes/:quiz_id", handlers.Quiz.UpdateQuiz)
		teacherAPI.DELETE("/quizzes/:quiz_id", handlers.Quiz.DeleteQuiz)
		teacherAPI.POST("/quizzes/:quiz_id/publish", handlers.Quiz.PublishQuiz)
		teacherAPI.POST("/quizzes/:quiz_id/unpublish", handlers.Quiz.UnpublishQuiz)
		teacherAPI.GET("/quizzes/:quiz_id/results", handlers.Quiz.QuizResults)
	}

	// ─── 3. Student Group (JWT + Active Session) ───────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		studentAPI.GET("/quizzes/code/:code", codeLimiter.Middleware(), handlers.Student.ResolveQuiz)
		studentAPI.POST("/attempts", handlers.Student.StartAttempt)
		studentAPI.GET("/attempts", handlers.Student.ListAttempts)
		studentAPI.GET("/attempts/:attempt_id", handlers.Student.GetAttempt)
		studentAPI.PUT("/attempts/:attempt_id/answers", handlers.Student.RecordAnswer)
		studentAPI.POST("/attempts/:attempt_id/submit", handlers.Student.SubmitAttempt)
	}

	// ─── 4. WebSocket Group (Teacher WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacherWSAuth(authService))
	{
		ws.GET("/teacher/quizzes/:quiz_id/monitor", handlers.Monitor.MonitorQuiz)
	}

	return router
}
