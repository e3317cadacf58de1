package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/config"
	"styleme-backend/internal/database"
	"styleme-backend/internal/entitlement"
	"styleme-backend/internal/fashn"
	"styleme-backend/internal/handlers"
	"styleme-backend/internal/middleware"
	"styleme-backend/internal/revenuecat"
	"styleme-backend/internal/storage"
	"styleme-backend/internal/tryon"
	"styleme-backend/internal/wardrobe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage: Postgres when configured, in-memory otherwise.
	var store storage.Store
	if cfg.DatabaseURL != "" {
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		migrator.Close()

		pgStore, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		log.Println("Warning: DATABASE_URL not set, using in-memory storage")
		store = storage.NewMemoryStore()
	}

	// Provider clients.
	fashnClient := fashn.NewClient(cfg.FashnAPIBaseURL, cfg.FashnAPIKey)

	var oracle entitlement.Oracle
	if cfg.RevenueCatAPIKey != "" {
		oracle = revenuecat.NewClient(cfg.RevenueCatBaseURL, cfg.RevenueCatAPIKey, "styleme-server")
	} else {
		log.Println("Warning: REVENUECAT_API_KEY not set, all users are treated as free tier")
		oracle = entitlement.NopOracle{}
	}

	gate := entitlement.NewGate(oracle, store)
	wardrobeService := wardrobe.NewService(store)

	submitter := tryon.NewSubmitter(fashnClient, tryon.DefaultModelName)
	poller := tryon.NewPoller(fashnClient)
	orchestrator := tryon.NewOrchestrator(gate, submitter, poller)

	// Handlers.
	tryOnHandler := handlers.NewTryOnHandler(orchestrator, gate, wardrobeService)
	clothesHandler := handlers.NewClothesHandler(wardrobeService)
	outfitsHandler := handlers.NewOutfitsHandler(wardrobeService, gate)
	historyHandler := handlers.NewHistoryHandler(wardrobeService)
	subscriptionHandler := handlers.NewSubscriptionHandler(gate)

	router := gin.Default()
	router.Use(gin.Recovery())

	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/clothes", clothesHandler.ListClothes)
	api.POST("/clothes", clothesHandler.AddCloth)
	api.PUT("/clothes/:cloth_id", clothesHandler.UpdateCloth)
	api.DELETE("/clothes/:cloth_id", clothesHandler.DeleteCloth)

	api.GET("/outfits", outfitsHandler.ListOutfits)
	api.POST("/outfits", outfitsHandler.AddOutfit)
	api.DELETE("/outfits/:outfit_id", outfitsHandler.DeleteOutfit)

	api.POST("/tryon", tryOnHandler.TryOn)
	api.GET("/tryon/usage", tryOnHandler.GetUsage)
	api.GET("/tryon/history", historyHandler.ListHistory)
	api.POST("/tryon/history/:history_id/favorite", historyHandler.ToggleFavorite)
	api.DELETE("/tryon/history/:history_id", historyHandler.RemoveHistory)
	api.DELETE("/tryon/history", historyHandler.ClearHistory)

	api.GET("/subscription/status", subscriptionHandler.GetStatus)
	api.POST("/subscription/purchase", subscriptionHandler.Purchase)
	api.POST("/subscription/restore", subscriptionHandler.Restore)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
