package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/signature"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/internal/platform/mercadopago"
)

type fakeFetcher struct {
	payment *mercadopago.Payment
	err     error
	calls   int
}

func (f *fakeFetcher) FetchPayment(ctx context.Context, id string) (*mercadopago.Payment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payment, nil
}

type fakeOrders struct {
	orders  map[string]*models.Order
	saveErr error
	saves   int
	// corruptStatus, when set, is what FindByID reports after a save,
	// simulating a lost write.
	corruptStatus models.OrderStatus
}

func (f *fakeOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	if f.saves > 0 && f.corruptStatus != "" {
		cp.OrderStatus = f.corruptStatus
	}
	return &cp, nil
}

func (f *fakeOrders) Save(ctx context.Context, order *models.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

type stockAdjust struct {
	productID string
	delta     int64
}

type fakeStock struct {
	adjusts []stockAdjust
	err     error
}

func (f *fakeStock) AdjustStock(ctx context.Context, productID string, delta int64) error {
	if f.err != nil {
		return f.err
	}
	f.adjusts = append(f.adjusts, stockAdjust{productID: productID, delta: delta})
	return nil
}

func paymentNotification(id string) *signature.Notification {
	n := &signature.Notification{Type: "payment", Action: "payment.updated"}
	n.Data.ID = id
	return n
}

func testOrder(id string, status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:          id,
		UserID:      "u1",
		OrderStatus: status,
		Items: datatypes.NewJSONType([]models.OrderItem{
			{ProductID: "prod-a", Name: "a", Quantity: 2, UnitPrice: 1500},
			{ProductID: "prod-b", Name: "b", Quantity: 1, UnitPrice: 4200},
		}),
		Total:    7200,
		Currency: "ARS",
	}
}

func newTestReconciler(f *fakeFetcher, o *fakeOrders, s *fakeStock) *Reconciler {
	return NewReconciler(f, o, s, nil, nil, zap.NewNop().Sugar())
}

func TestProcess_IgnoresNonPaymentEvents(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestReconciler(f, &fakeOrders{orders: map[string]*models.Order{}}, &fakeStock{})

	out, err := r.Process(context.Background(), &signature.Notification{Type: "plan"})
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.Zero(t, f.calls, "provider must not be queried for ignored events")

	out, err = r.Process(context.Background(), &signature.Notification{Type: "payment"})
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.Zero(t, f.calls)
}

func TestProcess_UpstreamDataErrors(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{}}

	_, err := newTestReconciler(&fakeFetcher{err: errors.New("timeout")}, orders, &fakeStock{}).
		Process(context.Background(), paymentNotification("P1"))
	require.ErrorIs(t, err, ErrUpstreamData)

	_, err = newTestReconciler(&fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "approved"}}, orders, &fakeStock{}).
		Process(context.Background(), paymentNotification("P1"))
	require.ErrorIs(t, err, ErrUpstreamData, "missing external reference")

	_, err = newTestReconciler(&fakeFetcher{payment: &mercadopago.Payment{ID: "P1", ExternalReference: "O1"}}, orders, &fakeStock{}).
		Process(context.Background(), paymentNotification("P1"))
	require.ErrorIs(t, err, ErrUpstreamData, "missing status")
}

func TestProcess_OrderNotFoundIsAcknowledged(t *testing.T) {
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "approved", ExternalReference: "missing"}}
	r := newTestReconciler(f, &fakeOrders{orders: map[string]*models.Order{}}, &fakeStock{})

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.Contains(t, out.Message, "missing")
}

func TestProcess_ApprovedAdvancesPendingPayment(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusPendingPayment)}}
	f := &fakeFetcher{payment: &mercadopago.Payment{
		ID: "P1", Status: "approved", ExternalReference: "O1",
		UpdateTime: time.Now(), PayerEmail: "buyer@example.com",
		PaymentMethodID: "visa", CardLastFour: "4242",
	}}
	stock := &fakeStock{}
	r := newTestReconciler(f, orders, stock)

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.True(t, out.Processed)
	require.True(t, out.StatusChanged)
	require.False(t, out.StockReturn)

	stored := orders.orders["O1"]
	require.Equal(t, models.OrderStatusProcessing, stored.OrderStatus)
	require.NotNil(t, stored.PaidAt)
	pr := stored.PaymentResult()
	require.NotNil(t, pr)
	require.Equal(t, "P1", pr.PaymentID)
	require.Equal(t, "approved", pr.Status)
	require.Equal(t, "buyer@example.com", pr.PayerEmail)
	require.Equal(t, "4242", pr.CardLastFour)
	require.Empty(t, stock.adjusts)
}

func TestProcess_RefundTriggersStockReturnOnce(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusProcessing)}}
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "refunded", ExternalReference: "O1"}}
	stock := &fakeStock{}
	r := newTestReconciler(f, orders, stock)

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.True(t, out.Processed)
	require.True(t, out.StockReturn)
	require.Equal(t, models.OrderStatusRefunded, orders.orders["O1"].OrderStatus)

	r.ReturnStock(context.Background(), out.Order)
	require.Equal(t, []stockAdjust{
		{productID: "prod-a", delta: 2},
		{productID: "prod-b", delta: 1},
	}, stock.adjusts)
}

func TestProcess_TerminalOrderIsNotUpdatable(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusFailed)}}
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "approved", ExternalReference: "O1"}}
	r := newTestReconciler(f, orders, &fakeStock{})

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.Contains(t, out.Message, "not updatable")
	require.Zero(t, orders.saves, "terminal orders must not be mutated")
}

func TestProcess_FulfilledOrderIsNotUpdatable(t *testing.T) {
	// A refund arriving after fulfillment is acknowledged but never applied:
	// only pending_payment and processing orders are open to notifications.
	for _, status := range []models.OrderStatus{
		models.OrderStatusPaid,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", status)}}
		f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "refunded", ExternalReference: "O1"}}
		stock := &fakeStock{}
		r := newTestReconciler(f, orders, stock)

		out, err := r.Process(context.Background(), paymentNotification("P1"))
		require.NoError(t, err, status)
		require.False(t, out.Processed, status)
		require.False(t, out.StockReturn, status)
		require.Contains(t, out.Message, "not updatable", status)
		require.Equal(t, status, orders.orders["O1"].OrderStatus)
		require.Zero(t, orders.saves, "fulfilled orders must not be mutated")
	}
}

func TestProcess_SecondDeliveryIsNoOp(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusProcessing)}}
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "cancelled", ExternalReference: "O1"}}
	stock := &fakeStock{}
	r := newTestReconciler(f, orders, stock)

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.True(t, out.StockReturn)
	r.ReturnStock(context.Background(), out.Order)
	require.Len(t, stock.adjusts, 2)

	// Same delivery again: order is now terminal, no second stock return.
	out, err = r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.False(t, out.Processed)
	require.False(t, out.StockReturn)
	require.Len(t, stock.adjusts, 2)
}

func TestProcess_UnchangedStatusStillRefreshesPaymentResult(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusProcessing)}}
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "approved", ExternalReference: "O1", PayerEmail: "late@example.com"}}
	r := newTestReconciler(f, orders, &fakeStock{})

	out, err := r.Process(context.Background(), paymentNotification("P1"))
	require.NoError(t, err)
	require.True(t, out.Processed)
	require.False(t, out.StatusChanged)
	require.Equal(t, models.OrderStatusProcessing, orders.orders["O1"].OrderStatus)
	require.Equal(t, "late@example.com", orders.orders["O1"].PaymentResult().PayerEmail)
}

func TestProcess_PersistFailures(t *testing.T) {
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: "P1", Status: "approved", ExternalReference: "O1"}}

	orders := &fakeOrders{
		orders:  map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusPendingPayment)},
		saveErr: errors.New("connection reset"),
	}
	_, err := newTestReconciler(f, orders, &fakeStock{}).Process(context.Background(), paymentNotification("P1"))
	require.ErrorIs(t, err, ErrPersist)

	// Post-write verification: the stored status does not match the intent.
	orders = &fakeOrders{
		orders:        map[string]*models.Order{"O1": testOrder("O1", models.OrderStatusPendingPayment)},
		corruptStatus: models.OrderStatusPendingPayment,
	}
	_, err = newTestReconciler(f, orders, &fakeStock{}).Process(context.Background(), paymentNotification("P1"))
	require.ErrorIs(t, err, ErrPersist)
}
