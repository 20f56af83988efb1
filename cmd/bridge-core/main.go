package main

// @title           Bridge Core API
// @version         1.0
// @description     Multi-tenant CRM integrations backend. Bridge Core runs the OAuth authorization-code flow against third-party CRMs and exposes normalized record listings.

// @contact.name   Bridge OSS
// @contact.url    https://github.com/custodia-labs/bridge-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @schemes   http https

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/bridge-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors"
	"github.com/custodia-labs/bridge-core/internal/adapters/driven/connectors/hubspot"
	"github.com/custodia-labs/bridge-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/bridge-core/internal/adapters/driven/redis"
	httpserver "github.com/custodia-labs/bridge-core/internal/adapters/driving/http"
	"github.com/custodia-labs/bridge-core/internal/core/ports/driven"
	"github.com/custodia-labs/bridge-core/internal/core/services"
)

var version = "dev"

func main() {
	log.Printf("bridge-core %s starting", version)

	// Configuration from environment
	host := getEnv("HOST", "0.0.0.0")
	port := getEnvInt("PORT", 8080)
	redisURL := getEnv("REDIS_URL", "")
	databaseURL := getEnv("DATABASE_URL", "")
	serviceTokenSecret := getEnv("SERVICE_TOKEN_SECRET", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ===== Key-value store (Redis if configured, otherwise PostgreSQL) =====
	var kvStore driven.KVStore
	var storePinger httpserver.Pinger

	switch {
	case redisURL != "":
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		store := redisadapter.NewKVStore(redisClient)
		kvStore = store
		storePinger = store
		log.Println("Using Redis key-value store")

	case databaseURL != "":
		log.Println("Connecting to PostgreSQL...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(databaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		store := postgres.NewKVStore(db)
		kvStore = store
		storePinger = store

		// Postgres has no native TTL; sweep expired entries periodically.
		go runCleanup(ctx, store, time.Hour, logger)
		log.Println("Using PostgreSQL key-value store")

	default:
		log.Fatal("No store configured: set REDIS_URL or DATABASE_URL")
	}

	// ===== Connectors =====
	registry := connectors.NewRegistry()
	registry.Register(hubspot.New(hubspot.ConfigFromEnv()))

	// ===== Core services =====
	states := services.NewStateManager(kvStore)
	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		Registry: registry,
		States:   states,
		Store:    kvStore,
	})
	credentialService := services.NewCredentialService(kvStore)
	itemService := services.NewItemService(registry, credentialService)
	providerService := services.NewProviderService(registry)

	// ===== Service-token auth (optional) =====
	var verifier driven.TokenVerifier
	if serviceTokenSecret != "" {
		verifier = auth.NewAdapter(serviceTokenSecret)
	} else {
		log.Println("Warning: SERVICE_TOKEN_SECRET unset, tenant endpoints are unauthenticated")
	}

	// ===== HTTP server =====
	server := httpserver.NewServer(
		httpserver.Config{Host: host, Port: port, Version: version},
		oauthService,
		credentialService,
		itemService,
		providerService,
		verifier,
		storePinger,
		logger,
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runCleanup periodically sweeps expired rows from the postgres store.
func runCleanup(ctx context.Context, store *postgres.KVStore, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Error("kv cleanup failed", "error", err)
			}
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
