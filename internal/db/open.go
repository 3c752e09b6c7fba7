package db

import (
	"context" // Context for pings
	"fmt"     // Error wrapping
	"time"    // Pool timings

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// PoolConfig controls the connection pool of the store
type PoolConfig struct {
	MaxOpenConns    int           // Maximum open connections
	MaxIdleConns    int           // Maximum idle connections
	ConnMaxLifetime time.Duration // Maximum connection age
}

// Open connects to MySQL and configures the connection pool. The caller owns
// the returned handle and must release it with Close.
func Open(dsn string, pool PoolConfig) (*gorm.DB, error) {
	return OpenDialector(mysql.Open(dsn), pool)
}

// OpenDialector opens the store through any gorm dialector with the given pool settings
func OpenDialector(dialector gorm.Dialector, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logrus.StandardLogger()), // Only slow queries and errors
		TranslateError: true,                                // Map driver errors to gorm.ErrDuplicatedKey etc.
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB() // Underlying database/sql pool
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}

// newGormLogger reports slow queries and errors through w. Expected misses
// (gorm.ErrRecordNotFound) are not logged.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond, // Slow query threshold
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Ping checks that the store is reachable
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.Warnf("database handle: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.Warnf("close database: %v", err)
	}
}
