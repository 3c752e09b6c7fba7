package config

import (
	"fmt"  // For error wrapping
	"time" // For durations

	"github.com/caarlos0/env/v10" // Typed environment parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"8080"`                              // Application port
	DBUser          string        `env:"DB_USER" envDefault:"root"`                               // Database user
	DBPassword      string        `env:"DB_PASSWORD"`                                             // Database password
	DBHost          string        `env:"DB_HOST" envDefault:"127.0.0.1"`                          // Database host
	DBPort          string        `env:"DB_PORT" envDefault:"3306"`                               // Database port
	DBName          string        `env:"DB_NAME" envDefault:"storefront"`                         // Database name
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`                       // Pool size
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`                        // Idle connections kept
	DBConnLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`                   // Max connection age
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`                            // JWT secret key
	JWTTTL          time.Duration `env:"JWT_TTL" envDefault:"1h"`                                 // Token lifetime
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`                  // Redis server address
	RedisPass       string        `env:"REDIS_PASS"`                                              // Redis password
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`                                 // Redis database number
	RedisTimeout    time.Duration `env:"REDIS_TIMEOUT" envDefault:"250ms"`                        // Redis dial and command deadline
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"60s"`                              // Read cache lifetime
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`            // Allowed browser origins
	EntryPage       string        `env:"ENTRY_PAGE" envDefault:"/"`                               // Page unauthenticated sessions are sent to
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"` // Proxies allowed to set client IP headers
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"false"`                         // Run schema migration on startup
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`                             // logrus level
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`                       // Graceful shutdown budget
	IsProd          bool          `env:"IS_PROD" envDefault:"false"`                              // Is production environment
}

// LoadConfig loads configuration from a .env file (if present) and environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DSN returns the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true&loc=UTC"
}
