package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/cors"
	"github.com/otcheredev/clinichub/internal/auth"
	"github.com/otcheredev/clinichub/internal/cache"
	"github.com/otcheredev/clinichub/internal/config"
	"github.com/otcheredev/clinichub/internal/database"
	"github.com/otcheredev/clinichub/internal/handlers"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/pkg/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting ClinicHub")

	// Connect to database
	db, err := database.Connect(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		LogLevel:        cfg.Database.LogLevel,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	// Initialize cache
	var (
		clinicCache cache.Cache
		cachePinger handlers.Pinger
	)
	if cfg.Cache.Enabled {
		if cfg.Cache.Type == "redis" {
			redisCache, err := cache.NewRedisCache(cache.RedisConfig{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				Prefix:   cfg.Redis.Prefix,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to connect to Redis")
			}
			defer redisCache.Close()
			clinicCache, cachePinger = redisCache, redisCache
			log.Info().Str("addr", cfg.Redis.Addr()).Msg("Redis cache initialized")
		} else {
			memoryCache := cache.NewMemoryCache()
			defer memoryCache.Close()
			clinicCache = memoryCache
			log.Info().Msg("Memory cache initialized")
		}
	} else {
		log.Info().Msg("Clinic cache disabled")
	}

	repos := repository.New(db, clinicCache, cfg.Cache.TTL)
	resolver := tenant.NewResolver(repos.Clinic, tenant.WithRequireActive(cfg.Tenant.RequireActive))
	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	router := handlers.NewRouter(handlers.RouterConfig{
		Repos:    repos,
		Resolver: resolver,
		Tokens:   tokens,
		Cache:    cachePinger,
		CORS: cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   []string{"Content-Length", "Content-Type", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		},
		Metrics: cfg.Metrics.Enabled,
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
