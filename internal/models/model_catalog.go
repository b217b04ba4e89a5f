package models

import "time"

type Category struct {
	ID          string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(128);not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type Product struct {
	ID          string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	// Price is stored in the currency's smallest unit.
	Price      int64     `gorm:"column:price;type:bigint;not null" json:"price"`
	Currency   string    `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Stock      int64     `gorm:"column:stock;type:bigint;not null;default:0" json:"stock"`
	CategoryID *string   `gorm:"column:category_id;type:uuid;index" json:"category_id"`
	ImagePath  string    `gorm:"column:image_path;type:varchar(512)" json:"image_path"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "product" }
