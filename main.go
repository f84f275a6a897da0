package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-api/config"
	"github.com/example/task-api/database"
	"github.com/example/task-api/middleware/servicelog"
	"github.com/example/task-api/modules/activity"
	"github.com/example/task-api/modules/api"
	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/cache"
	"github.com/example/task-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Starting task-api...")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	logger := app.Logger()
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET_KEY is not set, signing tokens with the development secret")
	}

	dbOptions := database.Options{Path: cfg.DBPath, Debug: cfg.DBDebug}

	authConfig := auth.Config{
		DB: dbOptions,
		JWT: auth.JWTConfig{
			SecretKey:     cfg.JWTSecretKey,
			TokenDuration: cfg.TokenTTL,
			Issuer:        cfg.JWTIssuer,
		},
	}
	if cfg.CacheEnabled() {
		authConfig.Cache = &cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Prefix:   "task-api:user:",
			TTL:      cfg.UserCacheTTL,
		}
	}

	// Register middleware BEFORE regular modules
	app.Register(servicelog.New(logger))

	// Register modules
	app.Register(auth.NewModule(authConfig, logger))
	app.Register(task.NewModule(dbOptions, logger))
	app.Register(activity.NewModule(activity.DefaultCapacity, logger))
	apiModule := api.NewModule(cfg.HTTPAddr, logger)
	apiModule.SetHealthSource(app.Health)
	app.Register(apiModule)

	// Start all modules
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Application started",
		"addr", cfg.HTTPAddr,
		"database", cfg.DBPath,
		"user_cache", cfg.CacheEnabled(),
	)
	log.Println("Endpoints:")
	log.Println("  POST   /api/auth/register  - Create an account (first one becomes admin)")
	log.Println("  POST   /api/auth/login     - Sign in")
	log.Println("  POST   /api/auth/logout    - Sign out")
	log.Println("  POST   /api/auth/refresh   - Renew the bearer token")
	log.Println("  GET    /api/auth/me        - Current user")
	log.Println("  GET    /api/tasks          - List tasks (all tasks for admins)")
	log.Println("  POST   /api/tasks          - Create a task")
	log.Println("  GET    /api/tasks/:id      - Show a task")
	log.Println("  PUT    /api/tasks/:id      - Update a task")
	log.Println("  DELETE /api/tasks/:id      - Delete a task")
	log.Println("  GET    /health             - Health check")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
