package db

import (
	"fmt" // Error wrapping

	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table managed by the service
var Models = []any{
	&domain.User{},
	&domain.Product{},
	&domain.CartItem{},
	&domain.Address{},
	&domain.Order{},
	&domain.OrderItem{},
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
