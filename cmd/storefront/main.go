package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/cart"
	"github.com/ljcl79/shophub/internal/catalog"
	"github.com/ljcl79/shophub/internal/httpapi"
	"github.com/ljcl79/shophub/internal/session"
	"github.com/ljcl79/shophub/internal/storeapi"
	"github.com/ljcl79/shophub/pkg/logger"
)

type Config struct {
	HTTPPort        string
	StoreAPIURL     string
	RedisAddr       string
	RedisPassword   string
	UsersDBPath     string
	MigrationsPath  string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreAPIURL:     getEnv("STORE_API_URL", "https://fakestoreapi.com"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		UsersDBPath:     getEnv("USERS_DB_PATH", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/session/migrations"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// Outbound client for the storefront API, traced end to end.
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}
	apiClient := storeapi.NewClient(cfg.StoreAPIURL, httpClient)
	store := catalog.NewStore(apiClient, zlog)

	registry, cleanup, err := buildRegistry(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to build credential registry", zap.Error(err))
	}
	defer cleanup()

	sessionStore, err := buildSessionStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to build session store", zap.Error(err))
	}

	hasher := session.NewBcryptHasher()
	seedAdminUser(ctx, registry, hasher, zlog)

	gate, err := session.NewGate(registry, hasher, sessionStore, zlog)
	if err != nil {
		zlog.Fatal("failed to build session gate", zap.Error(err))
	}
	if err := gate.Restore(ctx); err != nil {
		zlog.Warn("session restore failed, starting anonymous", zap.Error(err))
	}

	ledger := cart.NewLedger(gate)

	// Catalog loads in the background so the server answers immediately;
	// the loading state is visible through the API until it settles.
	go func() {
		if err := store.Load(ctx); err != nil {
			zlog.Error("catalog load failed", zap.Error(err))
		}
	}()

	router := httpapi.NewRouter(store, ledger, gate, zlog, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("storefront stopped")
}

// buildRegistry picks sqlite when a db path is configured, in-memory
// otherwise.
func buildRegistry(cfg *Config, zlog *zap.Logger) (session.Registry, func(), error) {
	if cfg.UsersDBPath == "" {
		zlog.Info("using in-memory credential registry")
		return session.NewMemoryRegistry(), func() {}, nil
	}

	registry, err := session.NewSQLiteRegistry(cfg.UsersDBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := registry.RunMigrations(cfg.MigrationsPath); err != nil {
		registry.Close()
		return nil, nil, err
	}
	zlog.Info("using sqlite credential registry", zap.String("path", cfg.UsersDBPath))
	return registry, func() { registry.Close() }, nil
}

// buildSessionStore picks redis when an address is configured, in-memory
// otherwise.
func buildSessionStore(ctx context.Context, cfg *Config, zlog *zap.Logger) (session.SessionStore, error) {
	if cfg.RedisAddr == "" {
		zlog.Info("using in-memory session store")
		return session.NewMemorySessionStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	zlog.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	return session.NewRedisSessionStore(client, ""), nil
}

// seedAdminUser registers the demo account the storefront ships with.
func seedAdminUser(ctx context.Context, registry session.Registry, hasher session.Hasher, zlog *zap.Logger) {
	hash, err := hasher.Hash("admin123")
	if err != nil {
		zlog.Warn("failed to hash seed password", zap.Error(err))
		return
	}
	if _, err := registry.Insert(ctx, "admin@example.com", hash, "Admin User"); err != nil {
		if !errors.Is(err, session.ErrEmailTaken) {
			zlog.Warn("failed to seed admin user", zap.Error(err))
		}
	}
}
