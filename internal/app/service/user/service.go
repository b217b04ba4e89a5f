package user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/models"
	cfgpkg "github.com/emberhill/storefront/pkg/config"
	"github.com/emberhill/storefront/pkg/tool"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	tokens *TokenIssuer
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *cfgpkg.Config) *Service {
	return &Service{
		db:     db,
		log:    log,
		tokens: NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}
}

func (s *Service) Tokens() *TokenIssuer { return s.tokens }

func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           tool.GenerateUUIDV7(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.UserRoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Mint(&u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id, name string) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = name
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, from, size int) ([]*models.User, int64, error) {
	if size <= 0 {
		size = 20
	}
	if from < 0 {
		from = 0
	}
	tx := s.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var rows []*models.User
	if err := tx.Order("created_at desc").Offset(from).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, total, nil
}
