package domain

import "time"

// Product Model. Price is stored in minor currency units.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`            // Primary key
	Name        string    `gorm:"not null" json:"name"`            // Product name
	Price       int64     `gorm:"not null" json:"price"`           // Unit price in minor units
	Stock       int       `gorm:"not null;default:0" json:"stock"` // Units available, never negative
	Image       string    `json:"image"`                           // Image reference
	Description string    `json:"description"`                     // Free-form description
	CreatedAt   time.Time `json:"created_at"`                      // Creation time
}
