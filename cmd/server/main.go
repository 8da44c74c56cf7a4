package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/rl1809/retail-inventory/internal/adapter/handler"
	"github.com/rl1809/retail-inventory/internal/adapter/storage"
	"github.com/rl1809/retail-inventory/internal/adapter/storage/memory"
	"github.com/rl1809/retail-inventory/internal/config"
	"github.com/rl1809/retail-inventory/internal/core/service"
	"github.com/rl1809/retail-inventory/internal/logger"
	"github.com/rl1809/retail-inventory/internal/port"
)

// stores is everything the services need from the storage layer, plus the
// probes and closers that go with the chosen backends.
type stores struct {
	inventory  port.InventoryRepository
	orders     port.OrderRepository
	orderLines port.OrderLineRepository
	catalog    port.CatalogRepository
	journal    port.JournalRepository
	probes     []handler.Probe
	closers    []func(context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open stores", zap.Error(err))
	}

	catalog := service.NewProductCatalog(st.catalog, log)
	ledger := service.NewInventoryLedger(st.inventory, catalog, st.journal, log)
	orders := service.NewOrderStore(st.orders, log)
	orderLines := service.NewOrderLineService(st.orderLines, ledger, orders, log)
	reporting := service.NewReporting(catalog)

	// gRPC: health and reflection only
	health := handler.NewHealthReporter(st.probes, cfg.GRPC.ProbeInterval, log)
	grpcServer := grpc.NewServer()
	health.Register(grpcServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal("failed to listen", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	probeDone := make(chan struct{})
	go func() {
		defer close(probeDone)
		health.Run(ctx)
	}()

	go func() {
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	httpHandler := handler.NewHTTPHandler(handler.Services{
		Ledger:     ledger,
		Orders:     orders,
		OrderLines: orderLines,
		Catalog:    catalog,
		Reporting:  reporting,
	}, cfg.Storage.OpTimeout, log)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped")

	cancel()
	<-probeDone
	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	for _, closeFn := range st.closers {
		if err := closeFn(shutdownCtx); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}
	log.Info("connections closed")
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		st.inventory = memory.NewInventoryStore()
		st.orders = memory.NewOrderStore()
		st.orderLines = memory.NewOrderLineStore()
		st.catalog = memory.NewCatalog()
		st.journal = memory.NewJournal()
		log.Info("using in-memory stores")
		return st, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Storage.OpTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := storage.EnsureMongoIndexes(pingCtx, db); err != nil {
			return nil, err
		}
		log.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))

		st.inventory = storage.NewMongoInventoryRepository(db)
		st.orders = storage.NewMongoOrderRepository(db)
		st.orderLines = storage.NewMongoOrderLineRepository(db)
		st.probes = append(st.probes, handler.Probe{
			Name:  "mongo",
			Check: func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		})

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

		st.catalog = storage.NewRedisAdapter(rdb)
		st.probes = append(st.probes, handler.Probe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	if !cfg.MySQL.Enabled() {
		log.Info("movement journal disabled")
		return st, nil
	}

	db, err := storage.OpenMySQL(ctx, cfg.MySQL.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	st.closers = append(st.closers, func(context.Context) error { return db.Close() })

	journal := storage.NewMySQLAdapter(db)
	if err := journal.Migrate(ctx); err != nil {
		return nil, err
	}
	log.Info("connected to mysql")

	st.journal = journal
	st.probes = append(st.probes, handler.Probe{Name: "mysql", Check: db.PingContext})
	return st, nil
}
