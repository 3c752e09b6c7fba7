package domain

import "time"

// Order Model. Total is computed server-side in minor units.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`                     // Primary key
	UserID        uint        `gorm:"index;not null" json:"user_id"`            // Owner
	AddressID     uint        `gorm:"not null" json:"address_id"`               // Shipping address
	Total         int64       `gorm:"not null" json:"total"`                    // Sum of unit price x quantity
	PaymentMethod string      `gorm:"size:32;not null" json:"payment_method"`   // Recorded, not executed
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`                  // Placement time
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"` // Line items
}

// OrderItem Model. UnitPrice is the price paid at checkout.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`           // Primary key
	OrderID   uint    `gorm:"index;not null" json:"order_id"` // Parent order
	ProductID uint    `gorm:"not null" json:"product_id"`     // Ordered product
	Quantity  int     `gorm:"not null" json:"quantity"`       // Units ordered
	Size      string  `gorm:"size:32" json:"size"`            // Variant selector
	UnitPrice int64   `gorm:"not null" json:"unit_price"`     // Snapshot of Product.Price
	Product   Product `json:"-"`                              // Current catalog data for display
}

// OrderLine is an order item as shown in order history.
type OrderLine struct {
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// OrderSummary is one entry of a user's order history.
type OrderSummary struct {
	ID            uint        `json:"id"`
	AddressID     uint        `json:"address_id"`
	Total         int64       `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderLine `json:"items"`
}
