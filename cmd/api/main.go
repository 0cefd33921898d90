// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/infrastructure/database/postgres"
	"github.com/your-org/burger-pizza/internal/infrastructure/database/redis"
	"github.com/your-org/burger-pizza/internal/infrastructure/geolocation"
	"github.com/your-org/burger-pizza/internal/interfaces/http"
	"github.com/your-org/burger-pizza/internal/interfaces/http/routes"
	"github.com/your-org/burger-pizza/internal/pkg/auth"
	"github.com/your-org/burger-pizza/internal/pkg/email"
	"github.com/your-org/burger-pizza/internal/pkg/logger"
	"github.com/your-org/burger-pizza/internal/pkg/pdf"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting service")

	menu, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	var (
		gormDB    *gorm.DB
		orderRepo *postgres.OrderRepository
	)
	if cfg.HasSink(config.SinkPostgres) {
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}

		gormDB = db.GetDB()
		orderRepo = postgres.NewOrderRepository(gormDB)
	}

	sink, err := buildSink(cfg, log, orderRepo)
	if err != nil {
		log.Fatalf("Failed to configure order sinks: %v", err)
	}

	registry := order.NewRegistry(
		redis.NewSessionStore(redisClient.GetClient(), cfg.Session.TTL),
		log,
		order.WithSink(sink),
		order.WithCurrency(cfg.Catalog.Currency),
		order.WithContactReset(cfg.Orders.ResetContactOnSubmit),
	)

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Catalog:  menu,
		Registry: registry,
		Tokens:   auth.NewSessionManager(cfg),
		Receipts: pdf.NewService(cfg),
	}
	if cfg.Geolocation.IPLookupEnabled {
		deps.IPLocator = geolocation.NewIPService(cfg.Geolocation.IPLookupURL, cfg.Geolocation.Timeout)
	}
	if orderRepo != nil {
		deps.Orders = orderRepo
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go registry.Run(ctx, cfg.Session.SweepEvery, cfg.Session.IdleTimeout)

	server := http.NewServer(deps, gormDB, redisClient.GetClient())

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}

// buildSink assembles the configured order sinks in the order they are listed
func buildSink(cfg *config.Config, log logrus.FieldLogger, orderRepo *postgres.OrderRepository) (order.Sink, error) {
	var sinks order.MultiSink
	for _, name := range cfg.Orders.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, order.NewLogSink(log))
		case config.SinkPostgres:
			sinks = append(sinks, orderRepo)
		case config.SinkEmail:
			sinks = append(sinks, email.NewOrderSink(email.NewEmailService(cfg, log), log))
		default:
			return nil, fmt.Errorf("unknown order sink %q", name)
		}
	}
	return sinks, nil
}
