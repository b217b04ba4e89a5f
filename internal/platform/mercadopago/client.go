package mercadopago

import (
	"context"
	"fmt"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/emberhill/storefront/pkg/config"
)

// Payment is the provider payment detail reduced to the fields this system
// consumes. Required-field validation happens in the reconciler, once, at the
// boundary.
type Payment struct {
	ID                string
	Status            string
	ExternalReference string
	UpdateTime        time.Time
	PayerEmail        string
	PaymentMethodID   string
	CardLastFour      string
}

// PaymentFetcher is the outbound dependency of the webhook reconciler.
// The concrete client is injected at construction so tests can substitute a
// fake without touching package state.
type PaymentFetcher interface {
	FetchPayment(ctx context.Context, id string) (*Payment, error)
}

type Client struct {
	payments payment.Client
	log      *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) (*Client, error) {
	mpCfg, err := mpconfig.New(cfg.MercadoPago.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init mercadopago client: %w", err)
	}
	return &Client{payments: payment.NewClient(mpCfg), log: log}, nil
}

func (c *Client) FetchPayment(ctx context.Context, id string) (*Payment, error) {
	numericID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", id, err)
	}

	resp, err := c.payments.Get(ctx, numericID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", id, err)
	}

	p := &Payment{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
		PayerEmail:        resp.Payer.Email,
		PaymentMethodID:   resp.PaymentMethodID,
		CardLastFour:      resp.Card.LastFourDigits,
	}
	// Prefer the last-updated timestamp; fall back to creation time.
	switch {
	case !resp.DateLastUpdated.IsZero():
		p.UpdateTime = resp.DateLastUpdated
	default:
		p.UpdateTime = resp.DateCreated
	}
	return p, nil
}

var Module = fx.Options(
	fx.Provide(
		NewClient,
		func(c *Client) PaymentFetcher { return c },
	),
)
