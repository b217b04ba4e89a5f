package product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberhill/storefront/internal/app/service/webhooksub"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/tool"
	"github.com/emberhill/storefront/pkg/types"
)

var ErrDuplicateSlug = errors.New("a product with this slug already exists")

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	fanout *webhooksub.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, fanout *webhooksub.Service) *Service {
	return &Service{db: db, log: log, fanout: fanout}
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.fanout.DispatchAsync(ctx, models.WebhookEventProductCreated, p)
	return nil
}

func (s *Service) Update(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID, err)
	}
	s.fanout.DispatchAsync(ctx, models.WebhookEventProductUpdated, p)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.fanout.DispatchAsync(ctx, models.WebhookEventProductDeleted, map[string]string{"id": id})
	return nil
}

// AdjustStock applies a signed delta to the product's stock count, clamped at
// zero. Stock return after a failed payment goes through here.
func (s *Service) AdjustStock(ctx context.Context, productID string, delta int64) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not found: %w", productID, gorm.ErrRecordNotFound)
	}
	return nil
}

// SetImagePath records the stored image location for a product.
func (s *Service) SetImagePath(ctx context.Context, productID, path string) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("image_path", path)
	if res.Error != nil {
		return fmt.Errorf("failed to set image for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ListRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListResponse struct {
	Items []*models.Product `json:"items"`
	Total int64             `json:"total"`
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req == nil {
		req = &ListRequest{}
	}
	if req.Size <= 0 {
		req.Size = 20
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Product{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var rows []*models.Product
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListResponse{Items: rows, Total: total}, nil
}
