package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventType string

const (
	WebhookEventProductCreated WebhookEventType = "product.created"
	WebhookEventProductUpdated WebhookEventType = "product.updated"
	WebhookEventProductDeleted WebhookEventType = "product.deleted"
)

func (t WebhookEventType) Valid() bool {
	switch t {
	case WebhookEventProductCreated, WebhookEventProductUpdated, WebhookEventProductDeleted:
		return true
	}
	return false
}

// WebhookSubscription is an admin-registered (url, event_type) pair used to
// fan out catalog-change events to third parties. Unique on url.
type WebhookSubscription struct {
	ID        string           `gorm:"column:id;primary_key;type:uuid" json:"id"`
	URL       string           `gorm:"column:url;type:varchar(1024);not null;uniqueIndex" json:"url"`
	EventType WebhookEventType `gorm:"column:event_type;type:varchar(64);not null" json:"event_type"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (WebhookSubscription) TableName() string { return "webhook_subscription" }

type WebhookEventDirection string

const (
	WebhookEventDirectionInbound  WebhookEventDirection = "inbound"
	WebhookEventDirectionOutbound WebhookEventDirection = "outbound"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
	WebhookEventLogStatusDelivered    WebhookEventLogStatus = "delivered"
	WebhookEventLogStatusFailed       WebhookEventLogStatus = "failed"
)

// WebhookEventLog records both inbound provider notifications and outbound
// fan-out deliveries, for offline reconciliation.
type WebhookEventLog struct {
	ID        string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Direction WebhookEventDirection `gorm:"column:direction;type:varchar(16);not null" json:"direction"`
	// Peer is the provider name for inbound events and the subscriber URL
	// for outbound deliveries.
	Peer       string                `gorm:"column:peer;type:varchar(1024);not null" json:"peer"`
	EventType  string                `gorm:"column:event_type;type:varchar(64);not null" json:"event_type"`
	TraceID    string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	PaymentID  string                `gorm:"column:payment_id;type:varchar(128)" json:"payment_id"`
	Payload    datatypes.JSON        `gorm:"column:payload;type:jsonb" json:"payload"`
	Result     *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status     WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Attempt    int                   `gorm:"column:attempt;not null;default:0" json:"attempt"`
	HTTPStatus *int                  `gorm:"column:http_status" json:"http_status"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string { return "webhook_event_log" }
