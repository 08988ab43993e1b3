package main

import (
	"fmt"
	"log"

	"github.com/quickinvoice/invoice-builder-service/internal/config"
	"github.com/quickinvoice/invoice-builder-service/internal/database"
	"github.com/quickinvoice/invoice-builder-service/internal/handler"
	"github.com/quickinvoice/invoice-builder-service/internal/middleware"
	"github.com/quickinvoice/invoice-builder-service/internal/repository"
	"github.com/quickinvoice/invoice-builder-service/internal/server"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
	"github.com/quickinvoice/invoice-builder-service/internal/storage"
)

// @title Invoice Builder Service API
// @version 1.0
// @description Backend for building, previewing and saving invoices.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewPostgresUserRepository(db.GetPool())
	profileRepo := repository.NewPostgresProfileRepository(db.GetPool())
	templateRepo := repository.NewPostgresTemplateRepository(db.GetPool())

	// Supabase storage is optional; without it images stay inline as data URLs
	var imageStore service.ImageStore
	if cfg.SupabaseS3Endpoint != "" && cfg.SupabaseAccessKeyID != "" {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.SupabaseS3Endpoint,
			AccessKeyID:     cfg.SupabaseAccessKeyID,
			AccessKeySecret: cfg.SupabaseAccessSecret,
			Bucket:          cfg.SupabaseBucket,
			Region:          cfg.SupabaseRegion,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize image storage, images will be stored inline: %v", err)
		} else {
			imageStore = uploader
		}
	}

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:             userRepo,
		GoogleClientID:       cfg.GoogleClientID,
		GoogleClientSecret:   cfg.GoogleClientSecret,
		GoogleRedirectURL:    cfg.GoogleRedirectURL,
		JWTSecret:            cfg.JWTSecret,
		JWTAccessExpiration:  cfg.JWTAccessExpiration,
		JWTRefreshExpiration: cfg.JWTRefreshExpiration,
	})
	profileService := service.NewProfileService(profileRepo, imageStore)
	draftService := service.NewDraftService(templateRepo, cfg.TaxMode, cfg.DefaultTaxRate)

	log.Printf("Totals run in %s mode with a default tax rate of %.2f%%", cfg.TaxMode, cfg.DefaultTaxRate)

	authHandler := handler.NewAuthHandler(authService, cfg.FrontendURL)
	draftHandler := handler.NewDraftHandler(draftService, profileService)
	profileHandler := handler.NewProfileHandler(profileService)
	templateHandler := handler.NewTemplateHandler(draftService)

	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)

	authMiddleware := middleware.AuthMiddleware(authService)
	authHandler.RegisterRoutes(appServer.GetRouter(), authMiddleware)
	draftHandler.RegisterRoutes(appServer.GetRouter(), authMiddleware)
	profileHandler.RegisterRoutes(appServer.GetRouter(), authMiddleware)
	templateHandler.RegisterRoutes(appServer.GetRouter(), authMiddleware)

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
