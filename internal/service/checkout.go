package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutInput holds the parameters of an order placement.
type CheckoutInput struct {
	AddressID     uint
	PaymentMethod string
}

// CheckoutResult identifies the placed order.
type CheckoutResult struct {
	OrderID uint  `json:"orderId"`
	Total   int64 `json:"total"`
}

// CheckoutService turns a user's cart into an order.
type CheckoutService struct {
	db      *gorm.DB
	rdb     *redis.Client
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(db *gorm.DB, rdb *redis.Client, log logrus.FieldLogger, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{db: db, rdb: rdb, log: log, metrics: m}
}

// Checkout places an order for everything in the user's cart. The cart
// snapshot, stock validation, order insertion, stock decrement and cart
// clearing commit together or not at all.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*CheckoutResult, error) {
	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		return nil, apperr.BadRequest("payment method is required")
	}

	var order domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Products are locked before the cart lines, in ascending id order.
		var ids []uint
		if err := tx.Model(&domain.CartItem{}).Where("user_id = ?", userID).
			Distinct().Pluck("product_id", &ids).Error; err != nil {
			return fmt.Errorf("load cart products: %w", err)
		}
		if len(ids) == 0 {
			return apperr.BadRequest("Cart is empty")
		}
		products, err := lockProducts(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		locked := make(map[uint]bool, len(ids))
		for _, id := range ids {
			locked[id] = true
		}

		var lines []domain.CartItem
		if err := tx.Clauses(forUpdate).Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return apperr.BadRequest("Cart is empty")
		}

		var address domain.Address
		res := tx.Where("id = ? AND user_id = ?", in.AddressID, userID).Limit(1).Find(&address)
		if res.Error != nil {
			return fmt.Errorf("load address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("address not found")
		}

		// Quantity needed per product across sizes.
		needed := make(map[uint]int, len(ids))
		for _, line := range lines {
			if !locked[line.ProductID] {
				return apperr.Conflict("cart changed during checkout, please retry")
			}
			needed[line.ProductID] += line.Quantity
		}

		var total int64
		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, ok := byID[line.ProductID]
			if !ok {
				return apperr.BadRequest(fmt.Sprintf("product %d is no longer available", line.ProductID))
			}
			if product.Stock < needed[line.ProductID] {
				return apperr.BadRequest(fmt.Sprintf("insufficient stock for product %d", line.ProductID))
			}
			total += product.Price * int64(line.Quantity)
			items = append(items, domain.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Size:      line.Size,
				UnitPrice: product.Price,
			})
		}

		order = domain.Order{
			UserID:        userID,
			AddressID:     address.ID,
			Total:         total,
			PaymentMethod: paymentMethod,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		order.Items = items

		for _, p := range products {
			if n := needed[p.ID]; n > 0 {
				if err := adjustStock(tx, p.ID, -n); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	s.metrics.Checkout(order.Total, err)
	if err != nil {
		if !errors.Is(err, apperr.ErrBadRequest) && !errors.Is(err, apperr.ErrNotFound) && !errors.Is(err, apperr.ErrConflict) {
			s.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Checkout failed")
		}
		return nil, internal(err)
	}

	invalidate(ctx, s.rdb, s.log, utils.OrdersCacheKey(userID), utils.ProductsCacheKey)
	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"order_id":       order.ID,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
		"lines":          len(order.Items),
	}).Info("Order placed")
	return &CheckoutResult{OrderID: order.ID, Total: order.Total}, nil
}
