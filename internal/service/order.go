package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderService reads order history.
type OrderService struct {
	db       *gorm.DB
	rdb      *redis.Client
	log      logrus.FieldLogger
	cacheTTL time.Duration
}

// NewOrderService creates an order history service.
func NewOrderService(db *gorm.DB, rdb *redis.Client, log logrus.FieldLogger, cacheTTL time.Duration) *OrderService {
	return &OrderService{db: db, rdb: rdb, log: log, cacheTTL: cacheTTL}
}

// ListOrders returns the user's orders newest first, each with its lines.
// The bool reports whether the result came from cache.
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]domain.OrderSummary, bool, error) {
	cacheKey := utils.OrdersCacheKey(userID)
	var cached []domain.OrderSummary
	if found, err := utils.GetCache(ctx, s.rdb, cacheKey, &cached); err == nil && found {
		return cached, true, nil
	}

	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, false, apperr.Internal(fmt.Errorf("list orders: %w", err))
	}

	summaries := make([]domain.OrderSummary, 0, len(orders))
	for _, o := range orders {
		lines := make([]domain.OrderLine, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, domain.OrderLine{
				ProductID:   it.ProductID,
				Name:        it.Product.Name,
				Quantity:    it.Quantity,
				Size:        it.Size,
				Price:       it.UnitPrice,
				Image:       it.Product.Image,
				Description: it.Product.Description,
			})
		}
		summaries = append(summaries, domain.OrderSummary{
			ID:            o.ID,
			AddressID:     o.AddressID,
			Total:         o.Total,
			PaymentMethod: o.PaymentMethod,
			CreatedAt:     o.CreatedAt,
			Items:         lines,
		})
	}

	if err := utils.SetCache(ctx, s.rdb, cacheKey, summaries, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed")
	}
	return summaries, false, nil
}
