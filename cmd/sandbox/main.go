package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/handlers"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg.Server.Env, cfg.Client.Verbose)
	defer logger.Sync()
	logger.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	// Initialize database
	db, err := config.InitSandboxDatabase(cfg)
	if err != nil {
		logger.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	if cfg.Sandbox.Seed {
		seeded, err := repositories.Seed(db)
		if err != nil {
			logger.Fatal("❌ Failed to seed database", zap.Error(err))
		}
		if seeded {
			logger.Info("🌱 Demo data seeded",
				zap.String("username", repositories.DemoUsername),
				zap.String("password", repositories.DemoPassword),
			)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	reqRepo := repositories.NewRequirementRepository(db)
	candRepo := repositories.NewCandidateRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	logger.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	ingestService := services.NewIngestService(
		docRepo,
		candRepo,
		reqRepo,
		services.NewPDFParserService(),
		logger,
	)

	worker := services.NewWorker(
		docRepo,
		ingestService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	app := handlers.NewApp(handlers.RouterConfig{
		AppName:   "CV Screening Sandbox",
		BodyLimit: int(cfg.Storage.MaxFileSize) * 10,
		AccessLog: true,
		UserRepo:  userRepo,
		Auth:      handlers.NewAuthHandler(userRepo),
		CV:        handlers.NewCVHandler(reqRepo, candRepo, docRepo, storageService, cfg.Storage.MaxFileSize),
		Upload:    handlers.NewUploadHandler(docRepo, reqRepo, storageService, worker, cfg.Storage.MaxFileSize),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			logger.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
