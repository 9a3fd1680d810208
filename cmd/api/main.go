package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/billsnap/docs"
	"github.com/fkhayef/billsnap/internal/ai"
	"github.com/fkhayef/billsnap/internal/config"
	"github.com/fkhayef/billsnap/internal/dashboard"
	"github.com/fkhayef/billsnap/internal/database"
	"github.com/fkhayef/billsnap/internal/friend"
	"github.com/fkhayef/billsnap/internal/job"
	"github.com/fkhayef/billsnap/internal/receipt"
	"github.com/fkhayef/billsnap/internal/storage"
	"github.com/fkhayef/billsnap/internal/user"
	mw "github.com/fkhayef/billsnap/pkg/middleware"
)

// @title           BillSnap API
// @version         1.0
// @description     Receipt analysis and bill splitting API
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to connect to object storage", "error", err)
		os.Exit(1)
	}

	analyzer := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	userHandler := user.NewHandler(userService)

	// Friend feature
	friendRepo := friend.NewRepository(db)
	friendService := friend.NewService(friendRepo, store)
	friendHandler := friend.NewHandler(friendService)

	// Receipt feature
	receiptRepo := receipt.NewRepository(db)
	receiptService := receipt.NewService(receiptRepo, friendService)

	// Job feature (background receipt analysis)
	jobRepo := job.NewRepository(db)
	jobService := job.NewService(jobRepo, analyzer, receiptService)
	jobHandler := job.NewHandler(jobService)

	receiptHandler := receipt.NewHandler(receiptService, jobService, store)

	// Dashboard feature
	dashboardHandler := dashboard.NewHandler(friendService, receiptService)

	// Stored file access
	fileHandler := storage.NewHandler(store)

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.Routes())

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))

			r.Mount("/users", userHandler.ProtectedRoutes())
			r.Mount("/friends", friendHandler.Routes())
			r.Mount("/receipts", receiptHandler.Routes())
			r.Mount("/jobs", jobHandler.Routes())
			r.Mount("/files", fileHandler.Routes())
			r.Mount("/dashboard", dashboardHandler.Routes())
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
