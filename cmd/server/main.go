package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nutrilog/backend/config"
	httpDelivery "github.com/nutrilog/backend/internal/delivery/http"
	"github.com/nutrilog/backend/internal/infrastructure/cache"
	"github.com/nutrilog/backend/internal/infrastructure/openfoodfacts"
	pgstore "github.com/nutrilog/backend/internal/infrastructure/postgres"
	"github.com/nutrilog/backend/internal/infrastructure/usda"
	"github.com/nutrilog/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriLog Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Open the catalog database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := pgstore.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize infrastructure dependencies
	searchCache := cache.NewMemoryCache()
	log.Printf("USDA search cache TTL: %s", cfg.Cache.SearchTTL)

	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, searchCache, cfg.Cache.SearchTTL)
	if cfg.USDA.APIKey != "" {
		log.Printf("USDA API configured: %s", cfg.USDA.BaseURL)
	} else {
		log.Printf("USDA API key not set - USDA search step disabled")
	}

	offClient := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent, cfg.OpenFoodFacts.MinInterval)
	log.Printf("Open Food Facts configured: %s (min interval %s)", cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.MinInterval)

	// Initialize usecase layer
	resolver := usecase.NewResolver(store, usdaClient, offClient, cfg.Provider.Timeout)
	logService := usecase.NewLogService(store, store)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, logService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
