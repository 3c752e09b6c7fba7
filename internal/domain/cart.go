package domain

// CartItem Model. At most one row exists per (user, product, size).
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                                              // Primary key
	UserID    uint   `gorm:"not null;uniqueIndex:idx_cart_line" json:"user_id"`                 // Owner
	ProductID uint   `gorm:"not null;uniqueIndex:idx_cart_line" json:"product_id"`              // Carted product
	Size      string `gorm:"size:32;not null;default:'';uniqueIndex:idx_cart_line" json:"size"` // Variant selector
	Quantity  int    `gorm:"not null" json:"quantity"`                                          // Always positive
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Stock     int    `json:"stock"`
}
