package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"lingodeck/internal/audio"
	"lingodeck/internal/config"
	"lingodeck/internal/database"
	"lingodeck/internal/handlers"
	"lingodeck/internal/repository"
	"lingodeck/internal/scheduler"
	"lingodeck/internal/security"
	"lingodeck/internal/service"
	"lingodeck/migrations"
)

func main() {
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(migrations.Files); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if err := os.MkdirAll(cfg.AudioCachePath, 0755); err != nil {
		log.Fatalf("Failed to create audio cache directory: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	deckRepo := repository.NewDeckRepository(db)
	cardRepo := repository.NewCardRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	progressRepo := repository.NewProgressRepository(db, cfg.ProgressTTL)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(userRepo, emailService, cfg.SessionDuration)
	deckService := service.NewDeckService(deckRepo, cardRepo)
	quizService := service.NewQuizService(deckRepo, cardRepo, historyRepo, progressRepo)
	translationService := service.NewTranslationService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	ttsService := audio.NewTTSService(cfg.AudioCachePath)

	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppBaseURL + "/auth/google/callback",
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Background jobs: snapshot purge and review reminders
	jobs := scheduler.New(progressRepo, userRepo, historyRepo, emailService)
	jobs.Start()
	defer jobs.Stop()

	// Handlers
	rateLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, googleOAuth, cfg.AppBaseURL)
	configHandler := handlers.NewConfigHandler(cfg.AutosaveInterval, googleOAuth != nil, cfg.Debug)
	deckHandler := handlers.NewDeckHandler(deckService, translationService)
	quizHandler := handlers.NewQuizHandler(quizService, ttsService, cfg.AudioCachePath)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", configHandler.ClientConfig)

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.CurrentUser))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.OAuthCallback)

	// Decks and cards
	mux.HandleFunc("GET /api/decks", middleware.RequireAuth(deckHandler.ListDecks))
	mux.HandleFunc("POST /api/decks", middleware.RequireAuth(deckHandler.CreateDeck))
	mux.HandleFunc("GET /api/decks/{id}", middleware.RequireAuth(deckHandler.GetDeck))
	mux.HandleFunc("PUT /api/decks/{id}", middleware.RequireAuth(deckHandler.UpdateDeck))
	mux.HandleFunc("DELETE /api/decks/{id}", middleware.RequireAuth(deckHandler.DeleteDeck))
	mux.HandleFunc("POST /api/decks/{id}/cards", middleware.RequireAuth(deckHandler.AddCard))
	mux.HandleFunc("PUT /api/cards/{id}", middleware.RequireAuth(deckHandler.UpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", middleware.RequireAuth(deckHandler.DeleteCard))
	mux.HandleFunc("POST /api/decks/{id}/translate", middleware.RequireAuth(deckHandler.Translate))

	// Quiz sessions
	mux.HandleFunc("POST /api/decks/{id}/quiz/start", middleware.RequireAuth(quizHandler.StartQuiz))
	mux.HandleFunc("POST /api/decks/{id}/quiz/resume", middleware.RequireAuth(quizHandler.ResumeQuiz))
	mux.HandleFunc("GET /api/decks/{id}/quiz/current", middleware.RequireAuth(quizHandler.CurrentQuestion))
	mux.HandleFunc("POST /api/decks/{id}/quiz/answer", middleware.RequireAuth(quizHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/decks/{id}/quiz/save", middleware.RequireAuth(quizHandler.SaveProgress))
	mux.HandleFunc("GET /api/decks/{id}/quiz/progress", middleware.RequireAuth(quizHandler.CheckProgress))
	mux.HandleFunc("DELETE /api/decks/{id}/quiz/progress", middleware.RequireAuth(quizHandler.DiscardProgress))
	mux.HandleFunc("GET /api/decks/{id}/history", middleware.RequireAuth(quizHandler.History))
	mux.HandleFunc("GET /api/decks/{id}/due", middleware.RequireAuth(quizHandler.DueStatus))
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(quizHandler.Stats))
	mux.HandleFunc("GET /api/audio", middleware.RequireAuth(quizHandler.Audio))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
