package service

import (
	"context"
	"fmt"

	"storefront/internal/apperr"
	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddressInput holds the fields of a shipping address.
type AddressInput struct {
	FullName    string
	PhoneNumber string
	Line1       string
	Line2       string
	City        string
	State       string
	Pincode     string
}

// AddressService manages a user's shipping addresses.
type AddressService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewAddressService creates an address book service.
func NewAddressService(db *gorm.DB, log logrus.FieldLogger) *AddressService {
	return &AddressService{db: db, log: log}
}

// ListAddresses returns the user's addresses, newest first.
func (s *AddressService) ListAddresses(ctx context.Context, userID uint) ([]domain.Address, error) {
	addresses := []domain.Address{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&addresses).Error
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list addresses: %w", err))
	}
	return addresses, nil
}

// AddAddress stores a new address for the user.
func (s *AddressService) AddAddress(ctx context.Context, userID uint, in AddressInput) (*domain.Address, error) {
	address := domain.Address{
		UserID:      userID,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Line1:       in.Line1,
		Line2:       in.Line2,
		City:        in.City,
		State:       in.State,
		Pincode:     in.Pincode,
	}
	if err := s.db.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("create address: %w", err))
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "address_id": address.ID}).Info("Address added")
	return &address, nil
}
