package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupInput holds the fields of a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []domain.User `json:"users"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	db       *gorm.DB
	rdb      *redis.Client
	log      logrus.FieldLogger
	secret   string
	tokenTTL time.Duration
	cacheTTL time.Duration
	cost     int
}

// NewAuthService creates an auth service issuing tokens signed with secret.
func NewAuthService(db *gorm.DB, rdb *redis.Client, log logrus.FieldLogger, secret string, tokenTTL, cacheTTL time.Duration) *AuthService {
	return &AuthService{
		db:       db,
		rdb:      rdb,
		log:      log,
		secret:   secret,
		tokenTTL: tokenTTL,
		cacheTTL: cacheTTL,
		cost:     bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup stores a new user with a salted password digest. The returned user
// never carries the digest.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	var existing domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     domain.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal(fmt.Errorf("create user: %w", err))
	}
	user.Password = ""

	if err := utils.DeleteCachePrefix(ctx, s.rdb, utils.AdminUsersCachePrefix); err != nil {
		s.log.WithError(err).Warn("cache invalidation failed")
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
	return &user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, s.secret, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	user.Password = ""
	return &LoginResult{Token: token, User: &user}, nil
}

// IsAdmin reports whether the user holds the admin role. The role is read
// from the store on every call so revocations apply immediately.
func (s *AuthService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("lookup user role: %w", err))
	}
	return user.Role == domain.RoleAdmin, nil
}

// ListUsers returns one page of users, served from cache when possible.
func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, bool, error) {
	cacheKey := fmt.Sprintf("%spage=%d:size=%d", utils.AdminUsersCachePrefix, page, pageSize)
	var cached UserPage
	if found, err := utils.GetCache(ctx, s.rdb, cacheKey, &cached); err == nil && found {
		return &cached, true, nil
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, false, apperr.Internal(fmt.Errorf("count users: %w", err))
	}
	users := []domain.User{}
	if err := s.db.WithContext(ctx).Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, false, apperr.Internal(fmt.Errorf("list users: %w", err))
	}

	result := &UserPage{
		Users:      users,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (int(total) + pageSize - 1) / pageSize,
	}
	if err := utils.SetCache(ctx, s.rdb, cacheKey, result, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("cache write failed")
	}
	return result, false, nil
}
