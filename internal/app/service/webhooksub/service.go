package webhooksub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/eventlog"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/tool"
)

var ErrDuplicateURL = errors.New("a webhook subscription with this url already exists")

// Service manages outbound webhook subscriptions and fans catalog-change
// events out to them.
type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	events *eventlog.Service
	httpc  *http.Client
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, events *eventlog.Service) *Service {
	return &Service{
		db:     db,
		log:    log,
		events: events,
		httpc:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Service) Create(ctx context.Context, url string, eventType models.WebhookEventType) (*models.WebhookSubscription, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WebhookSubscription{}).Where("url = ?", url).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription url: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateURL
	}

	sub := &models.WebhookSubscription{
		ID:        tool.GenerateUUIDV7(),
		URL:       url,
		EventType: eventType,
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context) ([]*models.WebhookSubscription, error) {
	var subs []*models.WebhookSubscription
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.WebhookSubscription{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Event is the body POSTed to subscribers.
type Event struct {
	Type      models.WebhookEventType `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
	Data      any                     `json:"data"`
}

// Dispatch POSTs the event to every subscription registered for its type,
// logging each delivery. Failures affect only the log; subscribers are
// external collaborators.
func (s *Service) Dispatch(ctx context.Context, eventType models.WebhookEventType, data any) {
	log := logctx.FromCtx(ctx, s.log)

	var subs []*models.WebhookSubscription
	if err := s.db.WithContext(ctx).Where("event_type = ?", eventType).Find(&subs).Error; err != nil {
		log.Errorw("webhook_fanout_load_failed", "event_type", eventType, "error", err.Error())
		return
	}
	if len(subs) == 0 {
		return
	}

	body, err := json.Marshal(Event{Type: eventType, Timestamp: time.Now(), Data: data})
	if err != nil {
		log.Errorw("webhook_fanout_marshal_failed", "event_type", eventType, "error", err.Error())
		return
	}

	for _, sub := range subs {
		s.deliver(ctx, sub, eventType, body)
	}
}

// DispatchAsync fires Dispatch on its own goroutine; callers (the product
// service) do not wait on subscriber round trips.
func (s *Service) DispatchAsync(ctx context.Context, eventType models.WebhookEventType, data any) {
	go s.Dispatch(context.WithoutCancel(ctx), eventType, data)
}

func (s *Service) deliver(ctx context.Context, sub *models.WebhookSubscription, eventType models.WebhookEventType, body []byte) {
	log := logctx.FromCtx(ctx, s.log)

	row := &models.WebhookEventLog{
		Direction: models.WebhookEventDirectionOutbound,
		Peer:      sub.URL,
		EventType: string(eventType),
		Payload:   datatypes.JSON(body),
		Attempt:   1,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		row.Status = models.WebhookEventLogStatusFailed
		s.events.Save(ctx, row)
		log.Errorw("webhook_delivery_failed", "url", sub.URL, "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		row.Status = models.WebhookEventLogStatusFailed
		s.events.Save(ctx, row)
		log.Errorw("webhook_delivery_failed", "url", sub.URL, "error", err.Error())
		return
	}
	defer resp.Body.Close()

	row.HTTPStatus = lo.ToPtr(resp.StatusCode)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		row.Status = models.WebhookEventLogStatusDelivered
	} else {
		row.Status = models.WebhookEventLogStatusFailed
	}
	s.events.Save(ctx, row)
	log.Infow("webhook_delivered", "url", sub.URL, "event_type", eventType, "status", resp.StatusCode)
}
