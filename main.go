package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	accessService "darion/internal/application/access"
	assistantService "darion/internal/application/assistant"
	sortService "darion/internal/application/sorter"
	syncService "darion/internal/application/sync"
	"darion/internal/delivery/http/handler"
	"darion/internal/delivery/http/router"
	"darion/internal/domain/integration"
	"darion/internal/infrastructure/config"
	"darion/internal/infrastructure/database"
	"darion/internal/infrastructure/integrations"
	"darion/internal/infrastructure/llm"
	"darion/internal/infrastructure/lock"
	"darion/internal/infrastructure/logging"
	"darion/internal/infrastructure/repository"
)

func main() {
	hashToken := flag.String("hash-token", "", "print the bcrypt hash of an access token for ACCESS_TOKEN_HASH and exit")
	flag.Parse()

	if *hashToken != "" {
		hash, err := accessService.NewService("").HashToken(*hashToken)
		if err != nil {
			log.Fatal("Failed to hash token:", err)
		}
		fmt.Println(hash)
		return
	}

	// Load configuration
	cfg := config.Load()

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatal("Failed to initialize logging:", err)
	}
	defer logging.Sync()
	logger := logging.L()

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	table, err := config.LoadCategoryTable(cfg.CategoryTablePath)
	if err != nil {
		logger.Fatal("failed to load category table", zap.Error(err))
	}

	locker, err := lock.NewFileLocker(cfg.LockDir, cfg.SortLockTimeout)
	if err != nil {
		logger.Fatal("failed to prepare lock directory", zap.Error(err))
	}

	// Initialize repositories
	conversationRepo := repository.NewConversationRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize integrations
	graph := integrations.NewGraph(integrations.GraphConfig{
		ClientID:      cfg.GraphClientID,
		ClientSecret:  cfg.GraphClientSecret,
		TenantID:      cfg.GraphTenantID,
		User:          cfg.GraphUser,
		Endpoint:      cfg.GraphEndpoint,
		LoginEndpoint: cfg.LoginEndpoint,
	})
	gmail := integrations.NewGmail(integrations.GmailConfig{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		RefreshToken: cfg.GmailRefreshToken,
		Endpoint:     cfg.GmailAPIEndpoint,
		TokenURL:     cfg.GmailTokenURL,
	})
	timeTree := integrations.NewTimeTree(integrations.TimeTreeConfig{
		AccessToken: cfg.TimeTreeAccessToken,
		CalendarID:  cfg.TimeTreeCalendarID,
		Endpoint:    cfg.TimeTreeEndpoint,
	})

	// Initialize services
	sortSvc := sortService.NewService(afero.NewOsFs(), table,
		sortService.WithWorkers(cfg.SortWorkers),
		sortService.WithLocker(locker),
		sortService.WithJobs(jobRepo),
	)
	syncSvc := syncService.NewService(cfg.SyncTimeout,
		syncService.Named{Target: integration.TargetOutlook, Source: graph.Outlook()},
		syncService.Named{Target: integration.TargetOneDrive, Source: graph.OneDrive()},
		syncService.Named{Target: integration.TargetGmail, Source: gmail},
		syncService.Named{Target: integration.TargetTimeTree, Source: timeTree},
	)

	var completer assistantService.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = llm.NewClient(llm.Config{
			APIKey:        cfg.OpenAIAPIKey,
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.OpenAIModel,
			MaxTokens:     cfg.OpenAIMaxTokens,
			Temperature:   cfg.OpenAITemperature,
			RatePerMinute: cfg.OpenAIRatePerMinute,
		})
	}
	assistantSvc := assistantService.NewService(conversationRepo, completer, sortSvc, syncSvc, cfg.HistoryLimit)
	accessSvc := accessService.NewService(cfg.AccessTokenHash)

	// Setup routes
	handlers := router.Handlers{
		Sort:      handler.NewSortHandler(sortSvc),
		Assistant: handler.NewAssistantHandler(assistantSvc),
		Sync:      handler.NewSyncHandler(syncSvc),
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.Setup(handlers, accessSvc, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("darion server starting",
		zap.String("addr", srv.Addr),
		zap.String("database", cfg.DatabasePath),
		zap.Int("sort_workers", cfg.SortWorkers),
		zap.Bool("assistant", completer != nil),
		zap.Bool("access_token", accessSvc.Enabled()),
		zap.Bool("outlook", graph.Configured()),
		zap.Bool("gmail", gmail.Configured()),
		zap.Bool("timetree", timeTree.Configured()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
