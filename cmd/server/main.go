package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"studysphere/internal/ai"
	"studysphere/internal/auth"
	"studysphere/internal/config"
	"studysphere/internal/exam"
	"studysphere/internal/export"
	"studysphere/internal/gamification"
	"studysphere/internal/lesson"
	"studysphere/internal/planner"
	"studysphere/pkg/cache"
	"studysphere/pkg/database"
	"studysphere/pkg/logger"
	"studysphere/pkg/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLog.Sync()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		zapLog.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		zapLog.Fatalw("failed to migrate database", "error", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr)

	wsHub := websocket.NewHub(zapLog)
	go wsHub.Run()

	aiClient := ai.NewClient(cfg.AI, zapLog)

	// Repositories
	authRepo := auth.NewRepository(db)
	gamificationRepo := gamification.NewRepository(db)
	lessonRepo := lesson.NewRepository(db)
	examRepo := exam.NewRepository(db)
	plannerRepo := planner.NewRepository(db)

	// Services
	gamificationService := gamification.NewService(gamificationRepo, redisCache, wsHub, zapLog)
	authService := auth.NewService(authRepo, gamificationRepo, cfg.JWTSecret, zapLog)
	lessonService := lesson.NewService(lessonRepo, aiClient, gamificationService, zapLog)
	examService := exam.NewService(examRepo, aiClient, gamificationService, zapLog)
	plannerService := planner.NewService(plannerRepo, gamificationService, zapLog)
	exporter := export.NewExporter(gamificationService, examService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	gamificationHandler := gamification.NewHandler(gamificationService, redisCache, zapLog)
	lessonHandler := lesson.NewHandler(lessonService)
	examHandler := exam.NewHandler(examService)
	plannerHandler := planner.NewHandler(plannerService)
	exportHandler := export.NewHandler(exporter, zapLog)

	// Background jobs: hourly study reminders, nightly leaderboard rebuild.
	scheduler := planner.NewScheduler(plannerRepo, wsHub, gamificationService, zapLog)
	scheduler.Start()
	defer scheduler.Stop()

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Everything else requires a valid token
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))

	apiRouter.HandleFunc("/lessons", lessonHandler.GenerateLesson).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/lessons", lessonHandler.ListLessons).Methods("GET")
	apiRouter.HandleFunc("/lessons/{id}", lessonHandler.GetLesson).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/lessons/{id}/quiz", lessonHandler.GetQuiz).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/lessons/{id}/quiz", lessonHandler.SubmitQuiz).Methods("POST")
	apiRouter.HandleFunc("/lessons/{id}/complete", lessonHandler.CompleteLesson).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/exams", examHandler.CreateExamPrep).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/exams", examHandler.ListExamPreps).Methods("GET")
	apiRouter.HandleFunc("/exams/attempts", examHandler.ListAttempts).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/exams/{id}", examHandler.GetExamPrep).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/exams/{id}", examHandler.Delete).Methods("DELETE")
	apiRouter.HandleFunc("/exams/{id}/activate", examHandler.Activate).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/exams/{id}/attempts", examHandler.SubmitAttempt).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/progress", gamificationHandler.GetProgress).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/progress/export", exportHandler.ExportProgress).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/leaderboard", gamificationHandler.GetLeaderboard).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/badges", gamificationHandler.GetBadgeCatalog).Methods("GET", "OPTIONS")

	apiRouter.HandleFunc("/plans", plannerHandler.CreatePlan).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/plans", plannerHandler.ListPlans).Methods("GET")
	apiRouter.HandleFunc("/plans/{id}", plannerHandler.GetPlan).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/plans/{id}", plannerHandler.Delete).Methods("DELETE")
	apiRouter.HandleFunc("/plans/{id}/activate", plannerHandler.Activate).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/plans/{id}/tasks/{taskId}/complete", plannerHandler.CompleteTask).Methods("POST", "OPTIONS")

	// WebSocket endpoint, authenticated like the API
	wsRouter := router.PathPrefix("/ws").Subrouter()
	wsRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))
	wsRouter.HandleFunc("", wsHub.HandleWebSocket)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // generation requests wait on the AI provider
	}

	go func() {
		zapLog.Infow("server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatalw("failed to start server", "error", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Errorw("server forced to shutdown", "error", err)
	}

	zapLog.Infow("server shutdown gracefully")
}
