package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/eventlog"
	"github.com/emberhill/storefront/internal/app/service/signature"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/internal/platform/mercadopago"
	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/metrics"
)

const ProviderName = "mercadopago"

var (
	// ErrUpstreamData marks provider responses missing required fields or a
	// failed provider fetch; acknowledged to the caller, never a 5xx, so the
	// provider does not retry against a non-idempotent failure.
	ErrUpstreamData = errors.New("incomplete provider payment data")
	// ErrPersist marks a failed save or a post-write verification mismatch.
	ErrPersist = errors.New("failed to persist order")
)

// OrderStore is the persistence dependency of the reconciler.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

// StockReturner reverses the provisional inventory decrement made at checkout.
type StockReturner interface {
	AdjustStock(ctx context.Context, productID string, delta int64) error
}

// Outcome is what the webhook handler turns into the provider acknowledgment.
type Outcome struct {
	Processed     bool
	Message       string
	StatusChanged bool
	StockReturn   bool
	Order         *models.Order
}

// Reconciler applies provider payment notifications to orders.
type Reconciler struct {
	fetcher mercadopago.PaymentFetcher
	orders  OrderStore
	stock   StockReturner
	events  *eventlog.Service
	metrics *metrics.Prometheus
	log     *zap.SugaredLogger
}

func NewReconciler(
	fetcher mercadopago.PaymentFetcher,
	orders OrderStore,
	stock StockReturner,
	events *eventlog.Service,
	m *metrics.Prometheus,
	log *zap.SugaredLogger,
) *Reconciler {
	return &Reconciler{fetcher: fetcher, orders: orders, stock: stock, events: events, metrics: m, log: log}
}

// Process fetches the authoritative payment details for a verified
// notification and applies the transition table to the referenced order.
// Errors wrapping ErrPersist mean the order may be half-written; everything
// else is acknowledged as processed:false.
func (r *Reconciler) Process(ctx context.Context, n *signature.Notification) (out *Outcome, resErr error) {
	log := logctx.FromCtx(ctx, r.log)
	r.logEvent(ctx, n, models.WebhookEventLogStatusReceived, nil, nil)
	defer func() {
		status := models.WebhookEventLogStatusHandled
		if resErr != nil {
			status = models.WebhookEventLogStatusHandleFailed
		}
		r.logEvent(ctx, n, status, out, resErr)
	}()

	if n.Type != "payment" || n.Data.ID == "" {
		r.observe("ignored")
		out = &Outcome{Processed: false, Message: "ignored non-payment notification"}
		return out, nil
	}

	p, err := r.fetcher.FetchPayment(ctx, n.Data.ID)
	if err != nil {
		log.Errorw("payment_fetch_failed", "payment_id", n.Data.ID, "error", err.Error())
		r.observe("upstream_error")
		return nil, fmt.Errorf("%w: fetch payment %s: %v", ErrUpstreamData, n.Data.ID, err)
	}
	if p.Status == "" || p.ExternalReference == "" {
		log.Errorw("payment_fields_missing", "payment_id", n.Data.ID,
			"status", p.Status, "external_reference", p.ExternalReference)
		r.observe("upstream_error")
		return nil, fmt.Errorf("%w: payment %s lacks status or external reference", ErrUpstreamData, n.Data.ID)
	}

	order, err := r.orders.FindByID(ctx, p.ExternalReference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The order may belong to another environment sharing the provider
		// account; acknowledged, not an internal error.
		log.Infow("order_not_found", "payment_id", p.ID, "external_reference", p.ExternalReference)
		r.observe("order_not_found")
		out = &Outcome{Processed: false, Message: fmt.Sprintf("no order for external reference %s", p.ExternalReference)}
		return out, nil
	}
	if err != nil {
		r.observe("error")
		return nil, fmt.Errorf("failed to load order %s: %w", p.ExternalReference, err)
	}

	if !order.OrderStatus.Updatable() {
		log.Infow("order_not_updatable", "payment_id", p.ID, "order_id", order.ID, "order_status", order.OrderStatus)
		r.observe("not_updatable")
		out = &Outcome{Processed: false, Message: fmt.Sprintf("order %s status %s is not updatable", order.ID, order.OrderStatus)}
		return out, nil
	}

	// Refresh the payment record no matter what the status decision is.
	order.Payment = datatypes.NewJSONType(&models.PaymentResult{
		PaymentID:       p.ID,
		Status:          p.Status,
		UpdateTime:      p.UpdateTime,
		PayerEmail:      p.PayerEmail,
		PaymentMethodID: p.PaymentMethodID,
		CardLastFour:    p.CardLastFour,
	})

	d := Transition(order.OrderStatus, p.Status)
	if !d.Changed {
		if err := r.persistAndVerify(ctx, order, false); err != nil {
			r.observe("persist_error")
			return nil, err
		}
		log.Infow("payment_result_refreshed", "payment_id", p.ID, "order_id", order.ID, "order_status", order.OrderStatus)
		r.observe("unchanged")
		out = &Outcome{Processed: true, Order: order, Message: "payment result refreshed, status unchanged"}
		return out, nil
	}

	prev := order.OrderStatus
	order.OrderStatus = d.NewStatus
	if d.MarkPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	if err := r.persistAndVerify(ctx, order, true); err != nil {
		log.Errorw("order_persist_failed", "payment_id", p.ID, "order_id", order.ID,
			"from", prev, "to", d.NewStatus, "error", err.Error())
		r.observe("persist_error")
		return nil, err
	}

	log.Infow("order_status_updated", "payment_id", p.ID, "order_id", order.ID,
		"from", prev, "to", d.NewStatus, "stock_return", d.StockReturn)
	r.observe("updated")
	out = &Outcome{
		Processed:     true,
		StatusChanged: true,
		StockReturn:   d.StockReturn,
		Order:         order,
		Message:       fmt.Sprintf("order %s: %s -> %s", order.ID, prev, d.NewStatus),
	}
	return out, nil
}

// persistAndVerify saves the order and, when the status changed, re-reads it
// to confirm the stored status matches the intended one. The unchanged path
// skips the verification read.
func (r *Reconciler) persistAndVerify(ctx context.Context, order *models.Order, verifyStatus bool) error {
	if err := r.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("%w: save order %s: %v", ErrPersist, order.ID, err)
	}
	if !verifyStatus {
		return nil
	}
	stored, err := r.orders.FindByID(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("%w: verify order %s: %v", ErrPersist, order.ID, err)
	}
	if stored.OrderStatus != order.OrderStatus {
		return fmt.Errorf("%w: order %s stored status %s, intended %s",
			ErrPersist, order.ID, stored.OrderStatus, order.OrderStatus)
	}
	return nil
}

// ReturnStock increments inventory for every order item. It runs after the
// acknowledgment was written, so failures are logged and never surfaced.
func (r *Reconciler) ReturnStock(ctx context.Context, order *models.Order) {
	log := logctx.FromCtx(ctx, r.log)
	for _, item := range order.OrderItems() {
		if err := r.stock.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Errorw("stock_return_failed", "order_id", order.ID,
				"product_id", item.ProductID, "quantity", item.Quantity, "error", err.Error())
			continue
		}
		log.Infow("stock_returned", "order_id", order.ID, "product_id", item.ProductID, "quantity", item.Quantity)
	}
}

func (r *Reconciler) observe(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveWebhookEvent(ProviderName, outcome)
}

func (r *Reconciler) logEvent(ctx context.Context, n *signature.Notification, status models.WebhookEventLogStatus, out *Outcome, resErr error) {
	if r.events == nil {
		return
	}
	payload, _ := json.Marshal(n)
	row := &models.WebhookEventLog{
		Direction: models.WebhookEventDirectionInbound,
		Peer:      ProviderName,
		EventType: n.Type,
		PaymentID: n.Data.ID,
		Payload:   datatypes.JSON(payload),
		Status:    status,
	}
	row.TraceID = logctx.TraceID(ctx)
	if out != nil || resErr != nil {
		resMap := map[string]any{}
		if out != nil {
			resMap["processed"] = out.Processed
			resMap["message"] = out.Message
		}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		j := datatypes.JSON(resBytes)
		row.Result = &j
	}
	r.events.Save(ctx, row)
}
