package address

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Address, error) {
	var rows []*models.Address
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, a *models.Address) error {
	if a.ID == "" {
		a.ID = tool.GenerateUUIDV7()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", a.UserID).
				UpdateColumn("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to clear default address: %w", err)
			}
		}
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// Update rewrites an address owned by userID; ownership is part of the match
// so users cannot edit each other's entries.
func (s *Service) Update(ctx context.Context, userID string, a *models.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Address
		if err := tx.First(&existing, "id = ? AND user_id = ?", a.ID, userID).Error; err != nil {
			return fmt.Errorf("failed to load address %s: %w", a.ID, err)
		}
		if a.IsDefault && !existing.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).
				UpdateColumn("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to clear default address: %w", err)
			}
		}
		a.UserID = userID
		a.CreatedAt = existing.CreatedAt
		if err := tx.Save(a).Error; err != nil {
			return fmt.Errorf("failed to update address %s: %w", a.ID, err)
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Address{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
