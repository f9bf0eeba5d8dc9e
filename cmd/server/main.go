package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/project-approval/internal/application/service"
	"github.com/garyjia/project-approval/internal/config"
	"github.com/garyjia/project-approval/internal/document"
	"github.com/garyjia/project-approval/internal/infrastructure/external/identity"
	"github.com/garyjia/project-approval/internal/infrastructure/external/lark"
	"github.com/garyjia/project-approval/internal/infrastructure/external/openai"
	"github.com/garyjia/project-approval/internal/infrastructure/persistence/repository"
	"github.com/garyjia/project-approval/internal/infrastructure/persistence/sqlite"
	httpadapter "github.com/garyjia/project-approval/internal/interfaces/http"
	"github.com/garyjia/project-approval/internal/report"
	"github.com/garyjia/project-approval/pkg/database"
	"github.com/garyjia/project-approval/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db.DB, logger)
	reviewerRepo := repository.NewReviewerRepository(db.DB, logger)
	routeRepo := repository.NewRouteRepository(db.DB, logger)
	budgetRepo := repository.NewBudgetRepository(db.DB, logger)
	kpiRepo := repository.NewKPIRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	// External adapters
	verifier := identity.NewClient(identity.Config{
		BaseURL: cfg.Identity.BaseURL,
		Timeout: cfg.Identity.Timeout,
	}, logger)
	larkClient := lark.NewSDKClient(lark.Config{
		AppID:     cfg.Lark.AppID,
		AppSecret: cfg.Lark.AppSecret,
	}, logger)
	notifier := lark.NewMessenger(larkClient, logger)
	scorer := openai.NewScorer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
	extractor := document.NewExtractor(logger)

	// Application services
	kvLogger := utils.NewKVLogger(logger)
	notifications := service.NewNotificationService(userRepo, notifier, kvLogger)
	routing := service.NewRoutingService(routeRepo, kvLogger)
	projectSvc := service.NewProjectService(projectRepo, kvLogger)
	approvalSvc := service.NewApprovalService(projectRepo, reviewerRepo, routing, txManager, notifications, kvLogger)
	budgetSvc := service.NewBudgetService(projectRepo, budgetRepo, kvLogger)
	kpiSvc := service.NewKPIService(projectRepo, kpiRepo, reviewerRepo, userRepo, kvLogger)
	analysisSvc := service.NewAnalysisService(projectRepo, extractor, scorer, kvLogger)
	exporter := report.NewBudgetExporter(logger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpadapter.Services{
		Project:      projectSvc,
		Approval:     approvalSvc,
		Budget:       budgetSvc,
		KPI:          kpiSvc,
		Analysis:     analysisSvc,
		BudgetExport: exporter,
	}, verifier, kvLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
