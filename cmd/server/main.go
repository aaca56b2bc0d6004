package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	cartapp "github.com/storefront-labs/shopcart/internal/cart/app"
	cartadapter "github.com/storefront-labs/shopcart/internal/cart/infra/adapter"
	cartmemory "github.com/storefront-labs/shopcart/internal/cart/infra/memory"
	cartpg "github.com/storefront-labs/shopcart/internal/cart/infra/postgres"
	catalogapp "github.com/storefront-labs/shopcart/internal/catalog/app"
	catalogdomain "github.com/storefront-labs/shopcart/internal/catalog/domain"
	catalogmemory "github.com/storefront-labs/shopcart/internal/catalog/infra/memory"
	catalogpg "github.com/storefront-labs/shopcart/internal/catalog/infra/postgres"
	"github.com/storefront-labs/shopcart/internal/server"
	"github.com/storefront-labs/shopcart/pkg/config"
	"github.com/storefront-labs/shopcart/pkg/logger"
	"github.com/storefront-labs/shopcart/pkg/postgres"
	"github.com/storefront-labs/shopcart/pkg/shutdown"
	"github.com/storefront-labs/shopcart/pkg/telemetry"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "shopcart",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		stop, err := telemetry.Setup(ctx, "shopcart", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("telemetry setup failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := stop(shutdownCtx); err != nil {
				log.Error("telemetry shutdown error", slog.Any("err", err))
			}
		}()
	}

	var (
		cartRepo    cartapp.CartRepo
		productRepo catalogapp.ProductRepo
	)

	switch cfg.Storage {
	case "memory":
		products := catalogmemory.NewProductRepo()
		seedProducts(products)
		productRepo = products
		cartRepo = cartmemory.NewCartRepo()
		log.Info("using in-memory storage")
	default:
		pool, err := postgres.Connect(ctx, postgres.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
		})
		if err != nil {
			log.Error("database connect failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer pool.Close()
		productRepo = catalogpg.NewProductRepo(pool)
		cartRepo = cartpg.NewCartRepo(pool)
		log.Info("connected to postgres", slog.String("host", cfg.DBHost))
	}

	catalogSvc := catalogapp.NewService(productRepo)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogServiceReader(catalogSvc))

	router := server.NewRouter(cartSvc, catalogSvc, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

// seedProducts fills the in-memory catalog so the API is usable
// without a database.
func seedProducts(repo *catalogmemory.ProductRepo) {
	repo.Seed(catalogdomain.Product{
		ID:            "p-1001",
		Name:          "Mechanical Keyboard",
		Price:         decimal.RequireFromString("89.90"),
		StockQuantity: 25,
		Active:        true,
	})
	repo.Seed(catalogdomain.Product{
		ID:            "p-1002",
		Name:          "USB-C Cable",
		Price:         decimal.RequireFromString("10.99"),
		StockQuantity: 200,
		Active:        true,
	})
	repo.Seed(catalogdomain.Product{
		ID:            "p-1003",
		Name:          "Legacy Mouse",
		Price:         decimal.RequireFromString("15.00"),
		StockQuantity: 5,
		Active:        false,
	})
}
