package domain

import "time"

// User roles
const (
	RoleUser  = "user"  // Regular customer
	RoleAdmin = "admin" // Catalog and user administration
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name      string    `gorm:"not null" json:"name"`                       // Display name
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique, lower-cased email
	Password  string    `gorm:"not null" json:"-"`                          // bcrypt digest, never serialized
	Phone     string    `json:"phone"`                                      // Contact phone
	Role      string    `gorm:"default:user" json:"role"`                   // Role: user or admin
	CreatedAt time.Time `json:"created_at"`                                 // Registration time
}
