package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocadrill/internal/config"
	"vocadrill/internal/database"
	"vocadrill/internal/handlers"
	"vocadrill/internal/repository"
	"vocadrill/internal/security"
	"vocadrill/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	cardRepo := repository.NewFlashcardRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTDuration)
	authService := service.NewAuthService(userRepo, tokens, cfg.SessionDuration)
	planService := service.NewPlanService(planRepo, cardRepo)
	studyService := service.NewStudyService(planRepo, cardRepo, sessionRepo, cfg.ReinsertMin, cfg.ReinsertMax)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.OAuthRedirectBase, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	testService := service.NewTestFlowService(planRepo, cardRepo, sessionRepo, userRepo, emailService)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBase)
	planHandler := handlers.NewPlanHandler(planService)
	sessionHandler := handlers.NewSessionHandler(studyService)
	testHandler := handlers.NewTestFlowHandler(testService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/token", middleware.RequireAuth(authHandler.Token))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Plan routes
	mux.HandleFunc("POST /api/plans", middleware.RequireAuth(planHandler.CreatePlan))
	mux.HandleFunc("GET /api/plans", middleware.RequireAuth(planHandler.ListPlans))
	mux.HandleFunc("GET /api/plans/{id}", middleware.RequireAuth(planHandler.GetPlan))
	mux.HandleFunc("PATCH /api/plans/{id}/status", middleware.RequireAuth(planHandler.UpdatePlanStatus))
	mux.HandleFunc("DELETE /api/plans/{id}", middleware.RequireAuth(planHandler.DeletePlan))
	mux.HandleFunc("GET /api/plans/{id}/accuracy", middleware.RequireAuth(sessionHandler.PlanAccuracy))
	mux.HandleFunc("GET /api/plans/{id}/tests", middleware.RequireAuth(testHandler.TestHistory))

	// Flashcard routes
	mux.HandleFunc("POST /api/plans/{id}/cards", middleware.RequireAuth(planHandler.AddCard))
	mux.HandleFunc("GET /api/plans/{id}/cards", middleware.RequireAuth(planHandler.ListCards))
	mux.HandleFunc("POST /api/plans/{id}/cards/bulk", middleware.RequireAuth(planHandler.BulkAddCards))
	mux.HandleFunc("PUT /api/cards/{id}", middleware.RequireAuth(planHandler.UpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", middleware.RequireAuth(planHandler.DeleteCard))
	mux.HandleFunc("POST /api/cards/{id}/sentences", middleware.RequireAuth(planHandler.AddSentence))

	// Drill session routes
	mux.HandleFunc("POST /api/sessions", middleware.RequireAuth(sessionHandler.StartSession))
	mux.HandleFunc("GET /api/sessions/recent", middleware.RequireAuth(sessionHandler.RecentSessions))
	mux.HandleFunc("GET /api/sessions/{id}/current", middleware.RequireAuth(sessionHandler.Current))
	mux.HandleFunc("POST /api/sessions/{id}/answer", middleware.RequireAuth(sessionHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/sessions/{id}/restart", middleware.RequireAuth(sessionHandler.Restart))
	mux.HandleFunc("DELETE /api/sessions/{id}", middleware.RequireAuth(sessionHandler.Abandon))
	mux.HandleFunc("GET /api/sessions/{id}/matching/round", middleware.RequireAuth(sessionHandler.MatchingRound))
	mux.HandleFunc("POST /api/sessions/{id}/matching/match", middleware.RequireAuth(sessionHandler.SubmitMatch))
	mux.HandleFunc("POST /api/sessions/{id}/matching/mismatch", middleware.RequireAuth(sessionHandler.SubmitMismatch))
	mux.HandleFunc("POST /api/sessions/{id}/matching/advance", middleware.RequireAuth(sessionHandler.AdvanceMatchingRound))

	// Test flow routes
	mux.HandleFunc("POST /api/tests", middleware.RequireAuth(testHandler.StartTest))
	mux.HandleFunc("GET /api/tests/{id}/phase", middleware.RequireAuth(testHandler.CurrentPhase))
	mux.HandleFunc("POST /api/tests/{id}/phase", middleware.RequireAuth(testHandler.SubmitPhase))
	mux.HandleFunc("DELETE /api/tests/{id}", middleware.RequireAuth(testHandler.AbandonTest))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
