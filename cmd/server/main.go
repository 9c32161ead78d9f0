package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/config"
	"github.com/mamadbah2/fleetcheck/internal/repository/mongodb"
	"github.com/mamadbah2/fleetcheck/internal/repository/sheets"
	"github.com/mamadbah2/fleetcheck/internal/scheduler"
	"github.com/mamadbah2/fleetcheck/internal/server/handlers"
	"github.com/mamadbah2/fleetcheck/internal/server/router"
	archivesvc "github.com/mamadbah2/fleetcheck/internal/service/archive"
	authsvc "github.com/mamadbah2/fleetcheck/internal/service/auth"
	climatesvc "github.com/mamadbah2/fleetcheck/internal/service/climate"
	fleetsvc "github.com/mamadbah2/fleetcheck/internal/service/fleet"
	inventorysvc "github.com/mamadbah2/fleetcheck/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/fleetcheck/internal/service/reporting"
	warehousesvc "github.com/mamadbah2/fleetcheck/internal/service/warehouse"
	"github.com/mamadbah2/fleetcheck/pkg/clients/anthropic"
	"github.com/mamadbah2/fleetcheck/pkg/clients/backend"
	whatsappclient "github.com/mamadbah2/fleetcheck/pkg/clients/whatsapp"
	"github.com/mamadbah2/fleetcheck/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	defer cancelBoot()

	mongoRepo, err := mongodb.NewMongoDBRepository(bootCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Optional integrations stay nil interfaces when not configured.
	var (
		remote    inventorysvc.RemoteSyncer
		pusher    climatesvc.Pusher
		lister    archivesvc.Lister
		templates reportingsvc.TemplateFetcher
		sheetsOut reportingsvc.SheetWriter
		analyzer  warehousesvc.Analyzer
		notifier  scheduler.Notifier
	)

	if cfg.Backend.BaseURL != "" {
		backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
		remote, pusher, lister, templates = backendClient, backendClient, backendClient, backendClient
		baseLogger.Info("central server client enabled", zap.String("base_url", cfg.Backend.BaseURL))
	} else {
		baseLogger.Warn("BACKEND_URL missing, central sync, climate push, history and templates disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(bootCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsOut = sheetsRepo
	} else {
		baseLogger.Warn("google sheet id missing, consolidated publishing disabled")
	}

	if cfg.AI.Enabled() {
		analyzer = anthropic.NewClient(anthropic.Config{
			APIKey: cfg.AI.AnthropicKey,
			APIURL: cfg.AI.AnthropicURL,
			Model:  cfg.AI.Model,
		})
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, dispatch analysis disabled")
	}

	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp digest enabled")
	}

	tokens := authsvc.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authSvc := authsvc.NewService(mongoRepo, tokens, baseLogger.Named("svc.auth"))
	if err := authSvc.Bootstrap(bootCtx, cfg.Fleet.Size, cfg.Auth.SeedPassword); err != nil {
		baseLogger.Fatal("failed to bootstrap accounts", zap.Error(err))
	}

	inventorySvc := inventorysvc.NewService(inventorysvc.NewStore(), mongoRepo, remote, baseLogger.Named("svc.inventory"))
	if err := inventorySvc.Reload(bootCtx); err != nil {
		baseLogger.Fatal("failed to load inventories", zap.Error(err))
	}

	go func() {
		err := mongoRepo.WatchInventories(ctx, func(ctx context.Context) {
			if err := inventorySvc.Reload(ctx); err != nil {
				baseLogger.Error("failed to reload inventories", zap.Error(err))
			}
		})
		if err != nil {
			baseLogger.Warn("inventory change feed stopped", zap.Error(err))
		}
	}()

	climateSvc := climatesvc.NewService(inventorySvc, pusher, baseLogger.Named("svc.climate"))
	archiveSvc := archivesvc.NewService(lister, baseLogger.Named("svc.archive"))
	fleetSvc := fleetsvc.NewService(authSvc, inventorySvc, cfg.Fleet.Size)
	reportingSvc := reportingsvc.NewService(authSvc, inventorySvc, sheetsOut, templates, reportingsvc.TemplateConfig{
		Name:  cfg.Reporting.TemplateName,
		Sheet: cfg.Reporting.TemplateSheet,
	}, baseLogger.Named("svc.reporting"))
	warehouseSvc := warehousesvc.NewService(mongoRepo, analyzer, baseLogger.Named("svc.warehouse"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Mobile:    handlers.NewMobileHandler(inventorySvc, climateSvc, reportingSvc, archiveSvc, baseLogger.Named("handlers.mobile")),
		Warehouse: handlers.NewWarehouseHandler(warehouseSvc, baseLogger.Named("handlers.warehouse")),
		Admin:     handlers.NewAdminHandler(fleetSvc, authSvc, reportingSvc, archiveSvc, baseLogger.Named("handlers.admin")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, fleetSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
