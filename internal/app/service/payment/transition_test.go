package payment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberhill/storefront/internal/models"
)

func TestTransition_Approved(t *testing.T) {
	d := Transition(models.OrderStatusPendingPayment, ProviderStatusApproved)
	require.True(t, d.Changed)
	require.Equal(t, models.OrderStatusProcessing, d.NewStatus)
	require.True(t, d.MarkPaid)
	require.False(t, d.StockReturn)

	// Approved on anything but pending_payment is a no-op.
	for _, cur := range []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusPaid,
		models.OrderStatusShipped,
		models.OrderStatusFailed,
	} {
		d := Transition(cur, ProviderStatusApproved)
		require.False(t, d.Changed, "current=%s", cur)
		require.Equal(t, cur, d.NewStatus)
		require.False(t, d.StockReturn)
	}
}

func TestTransition_Reversals(t *testing.T) {
	from := []models.OrderStatus{
		models.OrderStatusPendingPayment,
		models.OrderStatusProcessing,
		models.OrderStatusPaid,
		models.OrderStatusShipped,
	}

	tests := []struct {
		provider string
		want     models.OrderStatus
	}{
		{ProviderStatusRefunded, models.OrderStatusRefunded},
		{ProviderStatusCancelled, models.OrderStatusCancelled},
		{ProviderStatusRejected, models.OrderStatusFailed},
		{ProviderStatusFailed, models.OrderStatusFailed},
		{ProviderStatusChargedBack, models.OrderStatusFailed},
	}
	for _, tt := range tests {
		for _, cur := range from {
			d := Transition(cur, tt.provider)
			require.True(t, d.Changed, "%s from %s", tt.provider, cur)
			require.Equal(t, tt.want, d.NewStatus)
			require.True(t, d.StockReturn)
			require.False(t, d.MarkPaid)
		}
	}
}

func TestTransition_FailureLikeOnTerminal(t *testing.T) {
	// The target status is still computed, but the stock return is
	// suppressed: it already ran when the order first went terminal.
	d := Transition(models.OrderStatusRefunded, ProviderStatusChargedBack)
	require.Equal(t, models.OrderStatusFailed, d.NewStatus)
	require.True(t, d.Changed)
	require.False(t, d.StockReturn)

	d = Transition(models.OrderStatusFailed, ProviderStatusFailed)
	require.Equal(t, models.OrderStatusFailed, d.NewStatus)
	require.False(t, d.Changed)
	require.False(t, d.StockReturn)
}

func TestTransition_RefundOnTerminal(t *testing.T) {
	d := Transition(models.OrderStatusCancelled, ProviderStatusRefunded)
	require.False(t, d.Changed)
	require.Equal(t, models.OrderStatusCancelled, d.NewStatus)
	require.False(t, d.StockReturn)
}

func TestTransition_UnknownProviderStatus(t *testing.T) {
	d := Transition(models.OrderStatusPendingPayment, "in_mediation")
	require.False(t, d.Changed)
	require.Equal(t, models.OrderStatusPendingPayment, d.NewStatus)
	require.False(t, d.StockReturn)
}
