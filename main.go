package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dndoverworld/server/api/web"
	"github.com/dndoverworld/server/audit"
	"github.com/dndoverworld/server/cache"
	"github.com/dndoverworld/server/config"
	dbadapter "github.com/dndoverworld/server/db"
	mw "github.com/dndoverworld/server/middleware"
	"github.com/dndoverworld/server/model"
	"github.com/dndoverworld/server/scheduler"
	"github.com/dndoverworld/server/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer dbadapter.Close(db)
	if err := model.AutoMigrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	logger.Info("DB initialized", zap.String("driver", cfg.Database.Driver))

	// ---- Audit ----
	// Registered before any write so seeding is recorded too.
	if cfg.Audit.Enabled {
		auditSvc := audit.New(db, audit.Config{
			QueueSize:     cfg.Audit.QueueSize,
			BatchSize:     cfg.Audit.BatchSize,
			FlushInterval: cfg.Audit.FlushInterval,
		}, logger)
		defer auditSvc.Stop()
		if err := auditSvc.Register(db); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
	}

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer c.Close()
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Store ----
	st := store.New(db, c, logger, store.Options{CatalogTTL: cfg.Cache.CatalogTTL})
	if err := st.EnsureRoles(ctx, cfg.Database.SeedRoles...); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.Database.StatsInterval > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sched.AddTicker(scheduler.DBPoolStatsTask, cfg.Database.StatsInterval,
			scheduler.DBPoolStats(sqlDB, logger))
	}

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	if err := web.NewHandler(st, logger).Register(r); err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
