package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProductInput holds the fields of a new catalog product.
type ProductInput struct {
	Name        string
	Price       int64
	Stock       int
	Image       string
	Description string
}

// ProductService serves the product catalog.
type ProductService struct {
	db       *gorm.DB
	rdb      *redis.Client
	log      logrus.FieldLogger
	cacheTTL time.Duration
}

// NewProductService creates a catalog service.
func NewProductService(db *gorm.DB, rdb *redis.Client, log logrus.FieldLogger, cacheTTL time.Duration) *ProductService {
	return &ProductService{db: db, rdb: rdb, log: log, cacheTTL: cacheTTL}
}

// ListProducts returns every product ordered by id. The bool reports whether
// the result came from cache.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, bool, error) {
	var cached []domain.Product
	if found, err := utils.GetCache(ctx, s.rdb, utils.ProductsCacheKey, &cached); err == nil && found {
		return cached, true, nil
	}

	products := []domain.Product{}
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, false, apperr.Internal(fmt.Errorf("list products: %w", err))
	}
	if err := utils.SetCache(ctx, s.rdb, utils.ProductsCacheKey, products, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed")
	}
	return products, false, nil
}

// CreateProduct adds a product with its initial stock.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, apperr.BadRequest("name is required")
	case in.Price < 0:
		return nil, apperr.BadRequest("price must not be negative")
	case in.Stock < 0:
		return nil, apperr.BadRequest("stock must not be negative")
	}

	product := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("create product: %w", err))
	}

	invalidate(ctx, s.rdb, s.log, utils.ProductsCacheKey)
	s.log.WithFields(logrus.Fields{"product_id": product.ID, "stock": product.Stock}).Info("Product created")
	return &product, nil
}
