package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homehq/internal/config"
	"homehq/internal/database"
	"homehq/internal/handlers"
	"homehq/internal/repository"
	"homehq/internal/security"
	"homehq/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
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
	profileRepo := repository.NewProfileRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Google sign-in is optional; without credentials the endpoint rejects
	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Invitation email delivery is optional; without a sender address the
	// service logs the invite link instead of mailing it
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	inviteSigner := security.NewInviteSigner(cfg.InviteTokenSecret)

	// Initialize services
	authService := service.NewAuthService(profileRepo, cfg.SessionDuration, googleOAuth)
	familyService := service.NewFamilyService(familyRepo, profileRepo, inviteSigner, cfg.InviteDuration, emailService)
	eventService := service.NewEventService(eventRepo, profileRepo)
	taskService := service.NewTaskService(taskRepo, eventRepo, profileRepo)

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	eventHandler := handlers.NewEventHandler(eventService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/oauth/google", middleware.RateLimit(authHandler.GoogleLogin))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))

	// Family routes
	mux.HandleFunc("POST /api/families", middleware.RequireAuth(familyHandler.Create))
	mux.HandleFunc("GET /api/families/current", middleware.RequireAuth(familyHandler.Current))
	mux.HandleFunc("POST /api/families/invitations", middleware.RequireAuth(familyHandler.Invite))
	mux.HandleFunc("POST /api/families/invitations/redeem", middleware.RequireAuth(familyHandler.Redeem))
	mux.HandleFunc("POST /api/families/members", middleware.RequireAuth(familyHandler.CreateMember))
	mux.HandleFunc("DELETE /api/families/members/{id}", middleware.RequireAuth(familyHandler.DeleteMember))

	// Event routes
	mux.HandleFunc("POST /api/events", middleware.RequireAuth(eventHandler.Create))
	mux.HandleFunc("GET /api/events", middleware.RequireAuth(eventHandler.List))
	mux.HandleFunc("GET /api/events/{id}", middleware.RequireAuth(eventHandler.Get))
	mux.HandleFunc("DELETE /api/events/{id}", middleware.RequireAuth(eventHandler.Delete))
	mux.HandleFunc("GET /api/events/{id}/suggestions", middleware.RequireAuth(eventHandler.Suggestions))

	// Task routes
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("POST /api/tasks/from-suggestion", middleware.RequireAuth(taskHandler.CreateFromSuggestion))
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /api/tasks/{id}/complete", middleware.RequireAuth(taskHandler.Complete))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))

	// Wrap with recovery and logging middleware
	handler := handlers.Logging(handlers.Recover(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of expired sessions and invitations
	go cleanupExpired(authService, familyService)

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

// cleanupExpired periodically removes expired sessions and invitations
func cleanupExpired(authService *service.AuthService, familyService *service.FamilyService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}

		if err := familyService.CleanupExpiredInvitations(); err != nil {
			log.Printf("Error cleaning up expired invitations: %v", err)
		} else {
			log.Println("Expired invitations cleaned up")
		}
	}
}
