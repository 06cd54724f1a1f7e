package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/ai"
	"github.com/KristianFossum/leadstar-go/internal/auth"
	"github.com/KristianFossum/leadstar-go/internal/config"
	"github.com/KristianFossum/leadstar-go/internal/database"
	"github.com/KristianFossum/leadstar-go/internal/handlers"
	"github.com/KristianFossum/leadstar-go/internal/logging"
	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/KristianFossum/leadstar-go/internal/reminder"
	"github.com/KristianFossum/leadstar-go/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	progressionRepo := repository.NewProgressionRepository(pool)
	engine := progression.NewEngine(progressionRepo, loc, logger)

	coach := ai.NewClient(cfg.CoachBaseURL, cfg.CoachAPIKey, cfg.CoachModel, cfg.CoachTimeout, logger)

	reminders, err := reminder.New(pool, logger, cfg.ReminderSpec, loc)
	if err != nil {
		logger.Fatal("Invalid reminder schedule", zap.String("spec", cfg.ReminderSpec), zap.Error(err))
	}
	reminders.Start()
	defer reminders.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context(), pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": Version,
			"service": "leadstar-go",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "LeadStar Go API",
			"version": Version,
		})
	})

	// Public auth routes
	authRoutes := r.Group("/api/auth")
	authRoutes.Use(middleware.WithDB(pool))
	{
		authRoutes.POST("/register", handlers.Register(jwtService))
		authRoutes.POST("/login", handlers.Login(jwtService))
	}

	// Authenticated API
	api := r.Group("/api")
	api.Use(middleware.WithDB(pool))
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/users/me", handlers.GetMe)
		api.PATCH("/users/me", handlers.UpdateMe)

		api.GET("/journal", handlers.ListJournalEntries)
		api.POST("/journal", handlers.CreateJournalEntry(engine))
		api.GET("/journal/:id", handlers.GetJournalEntry)
		api.PATCH("/journal/:id", handlers.UpdateJournalEntry)
		api.DELETE("/journal/:id", handlers.DeleteJournalEntry)

		api.GET("/tasks", handlers.ListTasks)
		api.POST("/tasks", handlers.CreateTask)
		api.POST("/tasks/reorder", handlers.ReorderTasks)
		api.GET("/tasks/:id", handlers.GetTask)
		api.PATCH("/tasks/:id", handlers.UpdateTask)
		api.DELETE("/tasks/:id", handlers.DeleteTask)
		api.POST("/tasks/:id/complete", handlers.CompleteTask(engine))
		api.GET("/tasks/:id/instances", handlers.ListTaskInstances)
		api.POST("/tasks/:id/instances", handlers.GenerateTaskInstances)

		api.GET("/goals", handlers.ListGoals)
		api.POST("/goals", handlers.CreateGoal)
		api.PATCH("/goals/:id", handlers.UpdateGoal)
		api.DELETE("/goals/:id", handlers.DeleteGoal)
		api.POST("/goals/:id/progress", handlers.UpdateGoalProgress(engine))

		api.GET("/quizzes/personality", handlers.GetPersonalityQuiz)
		api.POST("/quizzes/personality", handlers.SubmitPersonalityQuiz(engine))
		api.GET("/quizzes/results", handlers.ListQuizResults)

		api.GET("/gamification/me", handlers.GetMyProgression(progressionRepo))
		api.GET("/gamification/leaderboard", handlers.GetLeaderboard)

		api.GET("/groups", handlers.ListGroups)
		api.POST("/groups", handlers.CreateGroup)
		api.POST("/groups/:id/join", handlers.JoinGroup)
		api.POST("/groups/:id/leave", handlers.LeaveGroup)
		api.GET("/groups/:id/posts", handlers.ListGroupPosts)
		api.POST("/groups/:id/posts", handlers.CreateGroupPost(engine))

		api.GET("/reports/weekly", handlers.GetWeeklyReport(progressionRepo))

		api.POST("/coach/chat", handlers.CoachChat(coach))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
