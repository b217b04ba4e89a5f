package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/product"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/tool"
)

var ErrQuantityNegative = errors.New("quantity must not be negative")

type Service struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	products *product.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, products *product.Service) *Service {
	return &Service{db: db, log: log, products: products}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Service) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := s.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = models.Cart{
			ID:     tool.GenerateUUIDV7(),
			UserID: userID,
			Items:  datatypes.NewJSONType([]models.CartItem{}),
		}
		if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &c, nil
}

// SetItem sets the quantity of a product in the user's cart. Quantity zero
// removes the line. The unit price is snapshotted from the catalog.
func (s *Service) SetItem(ctx context.Context, userID, productID string, quantity int64) (*models.Cart, error) {
	if quantity < 0 {
		return nil, ErrQuantityNegative
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{ProductID: productID, Quantity: quantity}
	if quantity > 0 {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = p.Price
	}

	c.Items = datatypes.NewJSONType(applyItem(c.Items.Data(), item))
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	c.Items = datatypes.NewJSONType([]models.CartItem{})
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// applyItem merges one line into the item list; zero quantity removes it.
func applyItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	items = lo.Reject(items, func(it models.CartItem, _ int) bool {
		return it.ProductID == item.ProductID
	})
	if item.Quantity > 0 {
		items = append(items, item)
	}
	return items
}

var Module = fx.Options(
	fx.Provide(NewService),
)
