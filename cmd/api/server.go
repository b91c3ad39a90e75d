package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exmatch/exchange/config"
	"github.com/exmatch/exchange/internal/api/handlers"
	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/api/routes"
	"github.com/exmatch/exchange/internal/matching"
	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/storage/journal"
	"github.com/exmatch/exchange/internal/storage/memory"
	"github.com/exmatch/exchange/internal/storage/postgres"
	redisstore "github.com/exmatch/exchange/internal/storage/redis"
	"github.com/exmatch/exchange/internal/stream"
	"github.com/exmatch/exchange/internal/stream/kafka"
	"github.com/exmatch/exchange/internal/stream/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.SetLevel(cfg.Logger.Level)
	if cfg.Logger.JSONFormat {
		logger.UseJSONFormat()
	}

	orderStore, tradeStore, pool, err := buildStorageLayers(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	hub := ws.NewHub()
	go hub.Run()

	publishers := stream.Multi{hub}
	if cfg.Kafka.Enabled {
		publishers = append(publishers, kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		logger.Info("Kafka event producer enabled", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

	engine := matching.NewEngine(orderStore, tradeStore, matching.WithPublisher(publishers))

	engineHolder := handlers.NewEngineHolder(engine, hub)
	handler := routes.SetupRoutes(engineHolder)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := engine.Close(); err != nil {
		logger.Error("Engine shutdown reported errors", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped")
}

// buildStorageLayers composes the configured order and trade stores. Memory
// is always first so reads stay off the network; Redis, PostgreSQL and the
// trade journal stack behind it as write-through layers.
func buildStorageLayers(cfg *config.Config) (storage.OrderStore, storage.TradeStore, *pgxpool.Pool, error) {
	orderStores := []storage.OrderStore{memory.NewOrderStore(cfg.Memory.MaxOrders)}
	tradeStores := []storage.TradeStore{memory.NewTradeStore(cfg.Memory.MaxTrades)}

	if cfg.Redis.Enabled {
		redisCfg := redisstore.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
			OrderTTL:     cfg.Redis.OrderTTL,
			MaxOrders:    cfg.Redis.MaxOrders,
			MaxTrades:    cfg.Redis.MaxTrades,
		}

		redisOrders, err := redisstore.NewOrderStore(redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		redisTrades, err := redisstore.NewTradeStore(redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}

		orderStores = append(orderStores, redisOrders)
		tradeStores = append(tradeStores, redisTrades)
		logger.Info("Redis storage enabled", map[string]interface{}{
			"host": cfg.Redis.Host,
			"port": cfg.Redis.Port,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		ctx := context.Background()
		var err error
		pool, err = postgres.NewPool(ctx, postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, nil, nil, err
		}

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, nil, nil, err
		}

		orderStores = append(orderStores, postgres.NewOrderStore(pool, cfg.Database.QueryTimeout))
		tradeStores = append(tradeStores, postgres.NewTradeStore(pool, cfg.Database.QueryTimeout))
		logger.Info("PostgreSQL storage enabled", map[string]interface{}{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Name,
		})
	}

	if cfg.Journal.Enabled {
		tradeJournal, err := journal.Open(cfg.Journal.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		tradeStores = append(tradeStores, tradeJournal)
		logger.Info("Trade journal enabled", map[string]interface{}{
			"dir": cfg.Journal.Dir,
		})
	}

	var orderStore storage.OrderStore = orderStores[0]
	if len(orderStores) > 1 {
		orderStore = storage.NewCompositeOrderStore(orderStores...)
	}
	var tradeStore storage.TradeStore = tradeStores[0]
	if len(tradeStores) > 1 {
		tradeStore = storage.NewCompositeTradeStore(tradeStores...)
	}

	return orderStore, tradeStore, pool, nil
}
