package models

import (
	"time"

	"gorm.io/datatypes"
)

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	// UnitPrice is a snapshot taken when the item was added.
	UnitPrice int64 `json:"unit_price"`
}

// Cart is one-per-user; items live in a jsonb column.
type Cart struct {
	ID        string                         `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID    string                         `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Items     datatypes.JSONType[[]CartItem] `gorm:"column:items;type:jsonb;default:'[]'" json:"items"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

func (Cart) TableName() string { return "cart" }

type Address struct {
	ID         string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID     string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Line1      string    `gorm:"column:line1;type:varchar(255);not null" json:"line1"`
	Line2      string    `gorm:"column:line2;type:varchar(255)" json:"line2"`
	City       string    `gorm:"column:city;type:varchar(128);not null" json:"city"`
	Region     string    `gorm:"column:region;type:varchar(128)" json:"region"`
	PostalCode string    `gorm:"column:postal_code;type:varchar(32);not null" json:"postal_code"`
	Country    string    `gorm:"column:country;type:varchar(2);not null" json:"country"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Address) TableName() string { return "address" }
