package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"loom/internal/auth"
	"loom/internal/config"
	"loom/internal/domain/services"
	"loom/internal/handler"
	"loom/internal/llm"
	"loom/internal/middleware"
	"loom/internal/prompts"
	"loom/internal/repository/postgres"
	"loom/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create token manager for issuing and verifying bearer tokens
	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	threadRepo := postgres.NewThreadRepository(repoConfig)
	chatRepo := postgres.NewChatRepository(repoConfig)
	feedbackRepo := postgres.NewFeedbackRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Load system-prompt presets
	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load prompt registry: %v", err)
	}
	systemPrompt, err := promptRegistry.SystemPrompt(cfg.PromptProfile)
	if err != nil {
		log.Fatalf("Failed to resolve prompt profile: %v", err)
	}
	logger.Info("prompt registry initialized", "profile", cfg.PromptProfile)

	// Completion client
	completionClient := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.RequestTimeout,
	}, logger)

	modelParams := services.ModelParams{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	// Create services
	userService := service.NewUserService(userRepo, logger)
	threadService := service.NewThreadService(threadRepo, userRepo, txManager, logger)
	chatService := service.NewChatService(chatRepo, threadRepo, threadService, completionClient, txManager, systemPrompt, modelParams, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, chatRepo, logger)

	// Create handlers
	authHandler := handler.NewAuthHandler(userService, tokenManager, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	threadHandler := handler.NewThreadHandler(threadService, chatService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Chat routes
	mux.HandleFunc("POST /api/v1/chats", chatHandler.CreateChat)
	mux.HandleFunc("GET /api/v1/chats", chatHandler.ListChats)
	mux.HandleFunc("GET /api/v1/chats/{id}", chatHandler.GetChat)
	mux.HandleFunc("DELETE /api/v1/chats/{id}", chatHandler.DeleteChat)

	// Thread routes
	mux.HandleFunc("GET /api/v1/threads", threadHandler.ListThreads)
	mux.HandleFunc("POST /api/v1/threads/activate", threadHandler.ActivateThread) // Must come before {id} route
	mux.HandleFunc("GET /api/v1/threads/{id}", threadHandler.GetThread)
	mux.HandleFunc("GET /api/v1/threads/{id}/chats", threadHandler.GetThreadChats)
	mux.HandleFunc("DELETE /api/v1/threads/{id}", threadHandler.DeleteThread)

	// Feedback routes
	mux.HandleFunc("POST /api/v1/feedbacks", feedbackHandler.CreateFeedback)
	mux.HandleFunc("GET /api/v1/feedbacks", feedbackHandler.ListFeedbacks)
	mux.HandleFunc("PATCH /api/v1/feedbacks/{id}/status", feedbackHandler.UpdateFeedbackStatus)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(tokenManager, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // must cover a full completion round-trip
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
