package webhooksub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberhill/storefront/internal/models"
)

func TestDeliver_PostsEventJSON(t *testing.T) {
	var got Event
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := &Service{log: zap.NewNop().Sugar(), httpc: &http.Client{Timeout: time.Second}}
	sub := &models.WebhookSubscription{ID: "s1", URL: srv.URL, EventType: models.WebhookEventProductUpdated}

	body, err := json.Marshal(Event{
		Type:      models.WebhookEventProductUpdated,
		Timestamp: time.Now(),
		Data:      map[string]string{"id": "prod-1"},
	})
	require.NoError(t, err)

	s.deliver(context.Background(), sub, models.WebhookEventProductUpdated, body)

	require.Equal(t, "application/json", contentType)
	require.Equal(t, models.WebhookEventProductUpdated, got.Type)
}

func TestDeliver_SubscriberErrorDoesNotPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := &Service{log: zap.NewNop().Sugar(), httpc: &http.Client{Timeout: time.Second}}
	sub := &models.WebhookSubscription{ID: "s1", URL: srv.URL, EventType: models.WebhookEventProductDeleted}

	// Delivery failure is log-only; the call must return normally.
	s.deliver(context.Background(), sub, models.WebhookEventProductDeleted, []byte(`{}`))
}
