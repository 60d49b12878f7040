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

	"github.com/library-server/internal/api"
	"github.com/library-server/internal/config"
	"github.com/library-server/internal/lending"
	"github.com/library-server/internal/middleware"
	"github.com/library-server/internal/storage"
	"github.com/library-server/internal/sweeper"

	_ "github.com/library-server/docs" // swagger docs
)

// @title Library Management API
// @version 1.0
// @description Library management backend: patrons, librarians and admins manage books and loans through a role-guarded REST API.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your JWT token with the `Bearer ` prefix, e.g. "Bearer eyJhbGci..."

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	log.Println("Connecting to database...")
	db, err := storage.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations (includes role seeding)
	log.Println("Running migrations...")
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	bookRepo := storage.NewBookRepository(db)
	issueRepo := storage.NewIssueRepository(db)

	// Create default admin user if not exists
	ctx := context.Background()
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		admin, err := userRepo.CreateAdmin(ctx, adminEmail, adminPassword, "Admin")
		if err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user ready: %s", admin.Email)
		}
	}

	// Initialize lending workflow
	policy := lending.NewLoanPolicy(cfg.Loan)
	lendingSvc := lending.NewService(bookRepo, userRepo, issueRepo, policy)

	// Start overdue sweeper
	sweep := sweeper.New(cfg.Sweep, issueRepo)
	if cfg.Sweep.Enabled {
		if err := sweep.Start(ctx); err != nil {
			log.Fatalf("Failed to start overdue sweeper: %v", err)
		}
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, userRepo)

	// Initialize API handlers
	handler := api.NewHandler(userRepo, bookRepo, lendingSvc, authMiddleware)

	// Setup router
	router := api.NewRouter(handler, authMiddleware)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop sweeper
	sweep.Stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
