// Package service implements the storefront use cases on top of the
// relational store. Every multi-statement mutation runs in one transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// Every transaction locks product rows before cart rows, and products in
// ascending id order.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// lockProduct reads a product row under a write lock.
func lockProduct(tx *gorm.DB, productID uint) (*domain.Product, error) {
	var product domain.Product
	err := tx.Clauses(forUpdate).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("product %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("lock product %d: %w", productID, err)
	}
	return &product, nil
}

// lockProducts locks the given product rows in ascending id order. Missing
// ids are absent from the result.
func lockProducts(tx *gorm.DB, ids []uint) ([]domain.Product, error) {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var products []domain.Product
	if err := tx.Clauses(forUpdate).Where("id IN ?", sorted).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	return products, nil
}

// findCartItem reads a cart line owned by userID without locking it.
func findCartItem(tx *gorm.DB, userID, itemID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	res := tx.Where("id = ? AND user_id = ?", itemID, userID).Limit(1).Find(&item)
	if res.Error != nil {
		return nil, fmt.Errorf("find cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("cart item not found")
	}
	return &item, nil
}

// lockCartItem reads a cart line owned by userID under a write lock.
func lockCartItem(tx *gorm.DB, userID, itemID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	res := tx.Clauses(forUpdate).Where("id = ? AND user_id = ?", itemID, userID).Limit(1).Find(&item)
	if res.Error != nil {
		return nil, fmt.Errorf("lock cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("cart item not found")
	}
	return &item, nil
}

// lockCartLine locks a user's cart line and its product, product first. The
// line is re-read under the lock since it may have changed or gone while
// the product lock was awaited.
func lockCartLine(tx *gorm.DB, userID, itemID uint) (*domain.CartItem, *domain.Product, error) {
	peek, err := findCartItem(tx, userID, itemID)
	if err != nil {
		return nil, nil, err
	}
	product, err := lockProduct(tx, peek.ProductID)
	if err != nil {
		return nil, nil, err
	}
	item, err := lockCartItem(tx, userID, itemID)
	if err != nil {
		return nil, nil, err
	}
	return item, product, nil
}

// adjustStock moves a product's stock by delta. Decrements only apply while
// enough stock remains, so stock never goes negative.
func adjustStock(tx *gorm.DB, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	q := tx.Model(&domain.Product{}).Where("id = ?", productID)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust stock of product %d: %w", productID, res.Error)
	}
	if delta < 0 && res.RowsAffected == 0 {
		return apperr.BadRequest(fmt.Sprintf("insufficient stock for product %d", productID))
	}
	return nil
}

// invalidate drops cached reads; failures only cost freshness.
func invalidate(ctx context.Context, rdb *redis.Client, log logrus.FieldLogger, keys ...string) {
	if err := utils.DeleteCache(ctx, rdb, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

// internal wraps unexpected failures; application errors pass through.
func internal(err error) error {
	var appErr *apperr.Error
	if err == nil || errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}
