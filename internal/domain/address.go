package domain

import "time"

// Address Model
type Address struct {
	ID          uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID      uint      `gorm:"index;not null" json:"user_id"` // Owner
	FullName    string    `gorm:"not null" json:"fullName"`      // Recipient name
	PhoneNumber string    `json:"phonenumber"`                   // Recipient phone
	Line1       string    `gorm:"not null" json:"line1"`         // First address line
	Line2       string    `json:"line2"`                         // Second address line
	City        string    `gorm:"not null" json:"city"`          // City
	State       string    `gorm:"not null" json:"state"`         // State or region
	Pincode     string    `gorm:"not null" json:"pincode"`       // Postal code
	CreatedAt   time.Time `gorm:"index" json:"created_at"`       // Used for newest-first listing
}
