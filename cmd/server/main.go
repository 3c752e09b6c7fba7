package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Process signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM

	"storefront/internal/api"     // Custom package for API handlers
	"storefront/internal/config"  // Custom package for configuration
	"storefront/internal/db"      // Database connection and migration
	"storefront/internal/metrics" // Prometheus collectors
	"storefront/internal/service" // Business logic
	"storefront/internal/utils"   // Redis client and cache helpers

	"github.com/gin-gonic/gin"                       // Gin web framework
	"github.com/prometheus/client_golang/prometheus" // Metrics registry
	"github.com/sirupsen/logrus"                     // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	log := logrus.StandardLogger()
	if cfg.IsProd {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	// Connect to the database with a bounded pool
	gdb, err := db.Open(cfg.DSN(), db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer db.Close(gdb)
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	// Setup Redis client
	redisClient := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisTimeout)
	defer redisClient.Close()

	// Test Redis connection. Caching degrades to the database when Redis is
	// down; short client deadlines bound what each cached read pays for it.
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, serving without cache")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	router, err := api.NewRouter(api.Deps{
		Config: api.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			CORSOrigins:    cfg.CORSOrigins,
			EntryPage:      cfg.EntryPage,
			TrustedProxies: cfg.TrustedProxies,
		},
		Log:      log,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Services: api.Services{
			Auth:      service.NewAuthService(gdb, redisClient, log, cfg.JWTSecret, cfg.JWTTTL, cfg.CacheTTL),
			Products:  service.NewProductService(gdb, redisClient, log, cfg.CacheTTL),
			Cart:      service.NewCartService(gdb, redisClient, log, m),
			Addresses: service.NewAddressService(gdb, log),
			Checkout:  service.NewCheckoutService(gdb, redisClient, log, m),
			Orders:    service.NewOrderService(gdb, redisClient, log, cfg.CacheTTL),
		},
		Checks: map[string]api.CheckFunc{
			"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Server running on %s", cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
