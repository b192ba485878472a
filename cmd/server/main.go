package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/delhayec/MillionRecap/internal/api"
	"github.com/delhayec/MillionRecap/internal/athlete"
	"github.com/delhayec/MillionRecap/internal/config"
	"github.com/delhayec/MillionRecap/internal/database"
	"github.com/delhayec/MillionRecap/internal/geocode"
	"github.com/delhayec/MillionRecap/internal/handler"
	"github.com/delhayec/MillionRecap/internal/ingest"
	"github.com/delhayec/MillionRecap/internal/logging"
	"github.com/delhayec/MillionRecap/internal/middleware"
	"github.com/delhayec/MillionRecap/internal/repository"
	"github.com/delhayec/MillionRecap/internal/service"
	"github.com/delhayec/MillionRecap/internal/sport"
)

func main() {
	// 加载配置
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	catalog := sport.DefaultCatalog()
	if cfg.SportsFile != "" {
		c, err := sport.LoadCatalog(cfg.SportsFile)
		if err != nil {
			return err
		}
		catalog = c
	}

	directory, err := athlete.LoadDirectory(cfg.AthletesFile)
	if err != nil {
		return err
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}, log); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()
	db := database.GetDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	activityRepo := repository.NewActivityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	runRepo := repository.NewRunRepository(db)

	opts := geocode.Options{
		Store: repository.NewGeocacheRepository(db),
		Rate:  rate.Limit(cfg.Geocoder.Rate),
		Log:   log.Named("geocode"),
	}
	if !cfg.Geocoder.Offline {
		opts.Reverser = geocode.NewNominatim(cfg.Geocoder.URL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)
	}
	resolver := geocode.NewResolver(opts)
	if err := resolver.Load(ctx); err != nil {
		return err
	}

	runs := service.NewRunService(runRepo, activityRepo, groupRepo, catalog, cfg.Grouping, log.Named("runs"))
	handlers := api.Handlers{
		Groups: handler.NewGroupHandler(service.NewGroupService(groupRepo)),
		Activities: handler.NewActivityHandler(
			service.NewActivityService(activityRepo, resolver, directory, log.Named("activities")),
			ingest.NewLoader(nil, log.Named("ingest")),
		),
		Runs: handler.NewRunHandler(runs),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 5*time.Minute)
	go limiter.RunCleanup(ctx)

	// 初始化路由
	router := api.SetupRouter(cfg, handlers, limiter, log.Named("http"))
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		// 启动服务器
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}
	if err := runs.Shutdown(shutdownCtx); err != nil {
		log.Warn("detection run did not stop in time", zap.Error(err))
	}
	return nil
}
