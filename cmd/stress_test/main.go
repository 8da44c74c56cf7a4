package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/adapter/storage"
	"github.com/rl1809/retail-inventory/internal/adapter/storage/memory"
	"github.com/rl1809/retail-inventory/internal/config"
	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/core/service"
	"github.com/rl1809/retail-inventory/internal/logger"
	"github.com/rl1809/retail-inventory/internal/port"
)

const (
	supplierID    = "stress-supplier"
	productID     = "stress-product"
	inventoryID   = "stress-inventory"
	retailerID    = "stress-retailer"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		inventory  port.InventoryRepository
		orders     port.OrderRepository
		orderLines port.OrderLineRepository
		catalogDB  port.CatalogRepository
	)

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal("failed to connect mongo", zap.Error(err))
		}
		defer client.Disconnect(ctx)

		db := client.Database(cfg.Mongo.Database + "_stress")
		if err := db.Drop(ctx); err != nil {
			log.Fatal("failed to reset stress database", zap.Error(err))
		}
		if err := storage.EnsureMongoIndexes(ctx, db); err != nil {
			log.Fatal("failed to create indexes", zap.Error(err))
		}

		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		rdb.Del(ctx, "supplier:"+supplierID, "product:"+productID)

		inventory = storage.NewMongoInventoryRepository(db)
		orders = storage.NewMongoOrderRepository(db)
		orderLines = storage.NewMongoOrderLineRepository(db)
		catalogDB = storage.NewRedisAdapter(rdb)

		// Report the persisted line count once the run is over.
		defer reportMongo(ctx, db)
	default:
		inventory = memory.NewInventoryStore()
		orders = memory.NewOrderStore()
		orderLines = memory.NewOrderLineStore()
		catalogDB = memory.NewCatalog()
	}

	catalog := service.NewProductCatalog(catalogDB, log)
	ledger := service.NewInventoryLedger(inventory, catalog, nil, log)
	orderStore := service.NewOrderStore(orders, log)
	lines := service.NewOrderLineService(orderLines, ledger, orderStore, log)

	must(log, catalog.CreateSupplier(ctx, domain.Supplier{ID: supplierID, Name: "Stress Supplier"}))
	must(log, catalog.CreateProduct(ctx, domain.Product{ID: productID, Name: "Stress Product", Price: 1, SupplierID: supplierID}))
	_, err = ledger.Create(ctx, inventoryID, productID, initialStock, "warehouse")
	must(log, err)
	must(log, orderStore.CreateRetailer(ctx, domain.Retailer{ID: retailerID, Name: "Stress Retailer"}))

	// One order per request so every create targets a distinct line.
	for i := 0; i < totalRequests; i++ {
		_, err := orderStore.CreateOrder(ctx, orderID(i), retailerID)
		must(log, err)
	}

	var successCount atomic.Int32
	var insufficientCount atomic.Int32
	var otherCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := lines.Create(ctx, orderID(n), productID, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientInventory):
				insufficientCount.Add(1)
			default:
				otherCount.Add(1)
				log.Error("unexpected create failure", zap.Error(err))
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	insufficient := insufficientCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Storage:          %s\n", cfg.Storage.Driver)
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Insufficient:     %d\n", insufficient)
	fmt.Printf("Other Failures:   %d\n", otherCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && insufficient == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d lines created, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d/%d, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, insufficient)
	}

	inv, err := ledger.GetByProduct(ctx, productID)
	must(log, err)
	all, err := lines.List(ctx)
	must(log, err)

	held := 0
	for _, l := range all {
		held += l.Quantity
	}
	fmt.Printf("Final Stock:      %d\n", inv.Quantity)
	fmt.Printf("Held By Lines:    %d\n", held)

	if inv.Quantity >= 0 && inv.Quantity+held == initialStock {
		fmt.Println("PASS: stock conserved and never negative")
	} else {
		fmt.Printf("FAIL: stock %d + held %d != %d\n", inv.Quantity, held, initialStock)
	}
}

func orderID(n int) string {
	return fmt.Sprintf("stress-order-%d", n)
}

func must(log *zap.Logger, err error) {
	if err != nil {
		log.Fatal("setup failed", zap.Error(err))
	}
}

func reportMongo(ctx context.Context, db *mongo.Database) {
	n, err := db.Collection("order_details").CountDocuments(ctx, bson.M{"product_id": productID})
	if err != nil {
		fmt.Printf("order_details count failed: %v\n", err)
		return
	}
	fmt.Printf("Mongo Lines:      %d\n", n)
}
