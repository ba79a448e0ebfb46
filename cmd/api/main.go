package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dulcismaison/dulcis-backend/api/routes"
	"github.com/dulcismaison/dulcis-backend/internal/catalog"
	"github.com/dulcismaison/dulcis-backend/internal/inventory"
	"github.com/dulcismaison/dulcis-backend/internal/location"
	"github.com/dulcismaison/dulcis-backend/internal/orders"
	"github.com/dulcismaison/dulcis-backend/internal/parties"
	"github.com/dulcismaison/dulcis-backend/pkg/config"
	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/env"
	"github.com/dulcismaison/dulcis-backend/pkg/logger"
	"github.com/dulcismaison/dulcis-backend/pkg/metrics"
	"github.com/dulcismaison/dulcis-backend/pkg/migrate"
	"github.com/dulcismaison/dulcis-backend/pkg/outbox"
	"github.com/dulcismaison/dulcis-backend/pkg/redis"
)

const serviceName = "api"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotent replay disabled")
	}

	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()))
	partyRepo := parties.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	locationSvc, err := location.NewService(dbClient, location.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}
	partiesSvc, err := parties.NewService(dbClient, partyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create parties service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(dbClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	inventorySvc, err := inventory.NewService(dbClient, inventory.NewRepository(dbClient.DB()), partyRepo, emitter, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, catalogRepo, partyRepo, emitter, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		metrics.NewHTTPMetrics(promRegistry),
		locationSvc,
		partiesSvc,
		catalogSvc,
		inventorySvc,
		ordersSvc,
	)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": serviceName,
		"port":        cfg.App.Port,
		"instance":    env.InstanceID(),
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(groupCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
