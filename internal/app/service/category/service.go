package category

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/tool"
)

var ErrDuplicateSlug = errors.New("a category with this slug already exists")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load category %s: %w", id, err)
	}
	return &c, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Category, error) {
	var cats []*models.Category
	if err := s.db.WithContext(ctx).Order("name asc").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

func (s *Service) Create(ctx context.Context, c *models.Category) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category slug: %w", err)
	}
	if count > 0 {
		return ErrDuplicateSlug
	}
	if c.ID == "" {
		c.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to update category %s: %w", c.ID, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
