package service

import (
	"context"
	"fmt"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID uint
	Quantity  int
	Size      string
}

// UpdateItemInput holds the optional fields of a cart line update.
type UpdateItemInput struct {
	Quantity *int
	Size     *string
}

// CartService keeps cart lines and product stock reconciled: every unit in a
// cart has been taken out of its product's stock.
type CartService struct {
	db      *gorm.DB
	rdb     *redis.Client
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewCartService creates a cart service.
func NewCartService(db *gorm.DB, rdb *redis.Client, log logrus.FieldLogger, m *metrics.Metrics) *CartService {
	return &CartService{db: db, rdb: rdb, log: log, metrics: m}
}

// ListCart returns the user's cart lines joined with product details.
func (s *CartService) ListCart(ctx context.Context, userID uint) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, cart_items.product_id, cart_items.quantity, cart_items.size, " +
			"products.name, products.price, products.image, products.stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id").
		Scan(&lines).Error
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list cart: %w", err))
	}
	return lines, nil
}

// AddToCart reserves quantity units of a product for the user, merging into
// an existing line for the same product and size.
func (s *CartService) AddToCart(ctx context.Context, userID uint, in AddItemInput) (*domain.CartItem, error) {
	if in.Quantity <= 0 {
		return nil, apperr.BadRequest("quantity must be greater than 0")
	}

	var item domain.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, in.ProductID)
		if err != nil {
			return err
		}
		if product.Stock < in.Quantity {
			return apperr.BadRequest(fmt.Sprintf("insufficient stock for product %d", product.ID))
		}

		res := tx.Clauses(forUpdate).
			Where("user_id = ? AND product_id = ? AND size = ?", userID, in.ProductID, in.Size).
			Limit(1).Find(&item)
		switch {
		case res.Error != nil:
			return fmt.Errorf("find cart line: %w", res.Error)
		case res.RowsAffected > 0:
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", in.Quantity)).Error; err != nil {
				return fmt.Errorf("merge cart line: %w", err)
			}
			item.Quantity += in.Quantity
		default:
			item = domain.CartItem{UserID: userID, ProductID: in.ProductID, Size: in.Size, Quantity: in.Quantity}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
		}

		return adjustStock(tx, in.ProductID, -in.Quantity)
	})
	s.metrics.CartMutation("add", err)
	if err != nil {
		return nil, internal(err)
	}

	invalidate(ctx, s.rdb, s.log, utils.ProductsCacheKey)
	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": in.ProductID,
		"size":       in.Size,
		"quantity":   in.Quantity,
	}).Info("Cart item added")
	return &item, nil
}

// UpdateCartItem changes the quantity and/or size of a cart line, returning
// or taking the quantity difference from the product's stock.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, itemID uint, in UpdateItemInput) (*domain.CartItem, error) {
	if in.Quantity == nil && in.Size == nil {
		return nil, apperr.BadRequest("quantity or size is required")
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, apperr.BadRequest("quantity must be greater than 0")
	}

	var result domain.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, product, err := lockCartLine(tx, userID, itemID)
		if err != nil {
			return err
		}

		newQty, newSize := item.Quantity, item.Size
		if in.Quantity != nil {
			newQty = *in.Quantity
		}
		if in.Size != nil {
			newSize = *in.Size
		}

		delta := newQty - item.Quantity
		if delta > 0 && product.Stock < delta {
			return apperr.BadRequest(fmt.Sprintf("insufficient stock for product %d", product.ID))
		}
		if err := adjustStock(tx, product.ID, -delta); err != nil {
			return err
		}

		if newSize != item.Size {
			merged, err := mergeIntoSibling(tx, item, newSize, newQty)
			if err != nil {
				return err
			}
			if merged != nil {
				result = *merged
				return nil
			}
		}

		if err := tx.Model(item).Updates(map[string]any{"quantity": newQty, "size": newSize}).Error; err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
		item.Quantity, item.Size = newQty, newSize
		result = *item
		return nil
	})
	s.metrics.CartMutation("update", err)
	if err != nil {
		return nil, internal(err)
	}

	invalidate(ctx, s.rdb, s.log, utils.ProductsCacheKey)
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"item_id":  itemID,
		"quantity": result.Quantity,
		"size":     result.Size,
	}).Info("Cart item updated")
	return &result, nil
}

// mergeIntoSibling folds item into the user's existing line for the same
// product in newSize, keeping one line per (user, product, size). It returns
// nil when no such line exists.
func mergeIntoSibling(tx *gorm.DB, item *domain.CartItem, newSize string, qty int) (*domain.CartItem, error) {
	var sibling domain.CartItem
	res := tx.Clauses(forUpdate).
		Where("user_id = ? AND product_id = ? AND size = ? AND id <> ?", item.UserID, item.ProductID, newSize, item.ID).
		Limit(1).Find(&sibling)
	if res.Error != nil {
		return nil, fmt.Errorf("find cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if err := tx.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("delete merged cart line: %w", err)
	}
	if err := tx.Model(&sibling).Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
		return nil, fmt.Errorf("merge cart line: %w", err)
	}
	sibling.Quantity += qty
	return &sibling, nil
}

// RemoveFromCart deletes a cart line and returns its quantity to stock.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, _, err := lockCartLine(tx, userID, itemID)
		if err != nil {
			return err
		}
		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		return adjustStock(tx, item.ProductID, item.Quantity)
	})
	s.metrics.CartMutation("remove", err)
	if err != nil {
		return internal(err)
	}

	invalidate(ctx, s.rdb, s.log, utils.ProductsCacheKey)
	s.log.WithFields(logrus.Fields{"user_id": userID, "item_id": itemID}).Info("Cart item removed")
	return nil
}
