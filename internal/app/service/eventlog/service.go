package eventlog

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/tool"
)

// Service persists webhook event log rows, inbound and outbound alike.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists an event log row. Nil input is ignored; a
// failed insert is logged, never surfaced, since logging must not fail the
// request that produced it.
func (s *Service) Save(ctx context.Context, row *models.WebhookEventLog) {
	if s == nil || s.db == nil || row == nil {
		return
	}
	go func() {
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
