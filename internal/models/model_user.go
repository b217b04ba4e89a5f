package models

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID           string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Role         UserRole  `gorm:"column:role;type:varchar(32);not null;default:'customer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
