package payment

import (
	"github.com/samber/lo"

	"github.com/emberhill/storefront/internal/models"
)

// Provider payment statuses this system reacts to.
const (
	ProviderStatusApproved    = "approved"
	ProviderStatusRefunded    = "refunded"
	ProviderStatusCancelled   = "cancelled"
	ProviderStatusRejected    = "rejected"
	ProviderStatusFailed      = "failed"
	ProviderStatusChargedBack = "charged_back"
)

// Decision is the mapper's verdict for one (current status, provider status)
// pair.
type Decision struct {
	NewStatus   models.OrderStatus
	Changed     bool
	StockReturn bool
	// MarkPaid asks the reconciler to record the paid-at timestamp.
	MarkPaid bool
}

type rule struct {
	provider    []string
	from        []models.OrderStatus
	to          models.OrderStatus
	stockReturn bool
	markPaid    bool
}

// reversalFrom is the set of statuses a refund/cancellation/failure report
// can still pull back.
var reversalFrom = []models.OrderStatus{
	models.OrderStatusPendingPayment,
	models.OrderStatusProcessing,
	models.OrderStatusPaid,
	models.OrderStatusShipped,
}

// transitions is the explicit status-transition table; first match wins.
var transitions = []rule{
	{
		provider: []string{ProviderStatusApproved},
		from:     []models.OrderStatus{models.OrderStatusPendingPayment},
		to:       models.OrderStatusProcessing,
		markPaid: true,
	},
	{
		provider:    []string{ProviderStatusRefunded},
		from:        reversalFrom,
		to:          models.OrderStatusRefunded,
		stockReturn: true,
	},
	{
		provider:    []string{ProviderStatusCancelled},
		from:        reversalFrom,
		to:          models.OrderStatusCancelled,
		stockReturn: true,
	},
	{
		provider:    []string{ProviderStatusRejected, ProviderStatusFailed, ProviderStatusChargedBack},
		from:        reversalFrom,
		to:          models.OrderStatusFailed,
		stockReturn: true,
	},
}

// Transition maps a provider-reported payment status onto an order-status
// decision. Unknown provider statuses and unmatched preconditions leave the
// status unchanged.
func Transition(current models.OrderStatus, providerStatus string) Decision {
	for _, r := range transitions {
		if !lo.Contains(r.provider, providerStatus) {
			continue
		}
		if lo.Contains(r.from, current) {
			return Decision{
				NewStatus:   r.to,
				Changed:     r.to != current,
				StockReturn: r.stockReturn,
				MarkPaid:    r.markPaid,
			}
		}
		if r.to == models.OrderStatusFailed && current.IsTerminal() {
			// Failure-like report on an already-terminal order: the target
			// status is still computed, but the stock was returned when the
			// order first went terminal, so the side effect is suppressed.
			return Decision{NewStatus: r.to, Changed: r.to != current}
		}
		return Decision{NewStatus: current}
	}
	return Decision{NewStatus: current}
}
