package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/kamleshjangid/bakery-backend/api/routes"
	"github.com/kamleshjangid/bakery-backend/internal/carts"
	"github.com/kamleshjangid/bakery-backend/internal/catalog"
	"github.com/kamleshjangid/bakery-backend/internal/customers"
	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/orderlock"
	"github.com/kamleshjangid/bakery-backend/internal/standing"
	"github.com/kamleshjangid/bakery-backend/pkg/config"
	"github.com/kamleshjangid/bakery-backend/pkg/db"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
	"github.com/kamleshjangid/bakery-backend/pkg/metrics"
	"github.com/kamleshjangid/bakery-backend/pkg/migrate"
	"github.com/kamleshjangid/bakery-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	closeAll := func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}
	defer closeAll()

	location, err := cfg.Orders.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid orders timezone", err)
		os.Exit(1)
	}
	now := func() time.Time { return time.Now().In(location) }

	catalogRepo := catalog.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())
	deliveryRepo := delivery.NewRepository(dbClient.DB())
	standingRepo := standing.NewRepository(dbClient.DB())
	cartsRepo := carts.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	requireService(logg, "catalog", err)
	customersService, err := customers.NewService(customersRepo)
	requireService(logg, "customers", err)
	deliveryService, err := delivery.NewService(deliveryRepo, delivery.Cutoff{
		Hour:   cfg.Orders.CutoffHour,
		Minute: cfg.Orders.CutoffMinute,
	}, now)
	requireService(logg, "delivery", err)

	locker, err := orderlock.New(redisClient, cfg.Orders.LockTTL)
	requireService(logg, "order lock", err)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	standingService, err := standing.NewService(dbClient, standingRepo, catalogRepo, customersRepo, deliveryService, locker, orderMetrics, logg)
	requireService(logg, "standing orders", err)
	cartsService, err := carts.NewService(dbClient, cartsRepo, catalogRepo, customersRepo, deliveryService, locker, orderMetrics, logg)
	requireService(logg, "carts", err)
	dayResolver, err := carts.NewDayResolver(cartsRepo, standingRepo, deliveryService)
	requireService(logg, "day resolver", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, prometheus.DefaultGatherer,
			catalogService, customersService, deliveryService,
			standingService, cartsService, dayResolver,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
