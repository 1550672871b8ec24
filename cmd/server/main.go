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

	"go.uber.org/zap"

	"github.com/GarrettC14/NutritionRx-sub008/config"
	httpDelivery "github.com/GarrettC14/NutritionRx-sub008/internal/delivery/http"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/usda"
	"github.com/GarrettC14/NutritionRx-sub008/internal/logging"
	"github.com/GarrettC14/NutritionRx-sub008/internal/metrics"
	"github.com/GarrettC14/NutritionRx-sub008/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Starting NutritionRx catalog v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Initialize infrastructure dependencies
	usdaClient := usda.NewClient(usda.ClientConfig{
		APIKey:    cfg.USDA.APIKey,
		BaseURL:   cfg.USDA.BaseURL,
		Timeout:   cfg.USDA.Timeout,
		SortBy:    cfg.USDA.SortBy,
		SortOrder: cfg.USDA.SortOrder,
	}, logger)
	logger.Info("USDA API configured",
		zap.String("base_url", cfg.USDA.BaseURL),
		zap.Duration("timeout", cfg.USDA.Timeout))

	collector := metrics.NewCollector("nutritionrx")

	// Initialize usecase layer
	catalog := usecase.NewCatalogService(
		usdaClient,
		usecase.CatalogServiceConfig{
			SearchTTL:   cfg.Cache.SearchTTL,
			DetailTTL:   cfg.Cache.DetailTTL,
			HourlyQuota: cfg.RateLimit.USDAHourly,
		},
		collector,
		logger,
	)
	logger.Info("Catalog configured",
		zap.Duration("search_ttl", cfg.Cache.SearchTTL),
		zap.Duration("detail_ttl", cfg.Cache.DetailTTL),
		zap.Int("usda_hourly_quota", cfg.RateLimit.USDAHourly),
		zap.Int("per_ip_per_minute", cfg.RateLimit.PerIP))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalog, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger, collector)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.USDA.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
