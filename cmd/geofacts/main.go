package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/geofacts/geofacts/internal/api/http"
	"github.com/geofacts/geofacts/internal/cache"
	"github.com/geofacts/geofacts/internal/config"
	"github.com/geofacts/geofacts/internal/provider"
	"github.com/geofacts/geofacts/internal/provider/providers"
	"github.com/geofacts/geofacts/internal/resolve"
	"github.com/geofacts/geofacts/internal/scheduler"
	"github.com/geofacts/geofacts/internal/taxonomy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Cache backend.
	var store cache.Cache
	switch cfg.CacheBackend {
	case "redis":
		rc, err := cache.NewRedisCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rc.Close()
		store = rc
	default:
		mc := cache.NewMemoryCache()
		defer mc.Close()
		store = mc
	}

	// Taxonomy term store.
	var termStore taxonomy.Store
	switch cfg.TaxonomyBackend {
	case "sqlite":
		ss, err := taxonomy.NewSQLiteStore(cfg.TaxonomyDBPath)
		if err != nil {
			log.Fatalf("failed to open taxonomy db: %v", err)
		}
		defer ss.Close()
		termStore = ss
	default:
		termStore = taxonomy.NewMemoryStore()
	}
	terms := taxonomy.NewResolver(termStore)

	// Registry with every available provider. Active/fallback selection per
	// capability comes from configuration.
	registry := provider.NewRegistry(cfg.Selection)
	register := func(p provider.Provider) {
		if err := registry.Register(p); err != nil {
			log.Fatalf("failed to register provider: %v", err)
		}
	}
	register(providers.NewNominatimProvider(providers.NominatimConfig{Debug: cfg.Debug}))
	register(providers.NewPhotonProvider(providers.PhotonConfig{}))
	register(providers.NewOpenMeteoProvider(providers.OpenMeteoConfig{}))
	register(providers.NewMetarProvider(providers.MetarConfig{}))
	register(providers.NewOpenMeteoElevationProvider(providers.OpenMeteoConfig{}))
	register(providers.NewOpenTopoDataProvider(providers.OpenTopoDataConfig{}))
	register(providers.NewOSMStaticMapProvider(providers.OSMStaticMapConfig{}))
	if cfg.OpenWeatherAPIKey != "" {
		register(providers.NewOpenWeatherProvider(providers.OpenWeatherConfig{APIKey: cfg.OpenWeatherAPIKey}))
	}
	if cfg.CompassURL != "" {
		register(providers.NewCompassProvider(providers.CompassConfig{
			BaseURL: cfg.CompassURL,
			Token:   cfg.CompassToken,
		}))
	}

	resolver := resolve.New(registry, store, resolve.Config{
		HomeCountry: cfg.HomeCountry,
		Zones:       cfg.Zones,
		Debug:       cfg.Debug,
	})

	// Cache warming for configured locations.
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, scheduler.TTLs{
		Address:   cfg.AddressTTL,
		Weather:   cfg.WeatherTTL,
		Elevation: cfg.ElevationTTL,
	}, resolver)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "geofacts",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, resolver, terms, httpapi.Config{
		Units:        cfg.Units,
		AddressTTL:   cfg.AddressTTL,
		WeatherTTL:   cfg.WeatherTTL,
		ElevationTTL: cfg.ElevationTTL,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
