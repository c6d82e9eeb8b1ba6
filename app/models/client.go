package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer record with aggregated revenue/cost figures. The
// per-period detail lives in ClientRevenueHistory.
type Client struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	BusinessArea string         `gorm:"type:varchar(150)" json:"business_area" validate:"max=150"`
	RevenueCents int64          `gorm:"not null;default:0" json:"revenue_cents" validate:"gte=0"`
	CostCents    int64          `gorm:"not null;default:0" json:"cost_cents" validate:"gte=0"`
	Notes        string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// ClientRevenueHistory is one revenue/cost snapshot for a client.
type ClientRevenueHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RevenueCents int64     `gorm:"not null;default:0" json:"revenue_cents"`
	CostCents    int64     `gorm:"not null;default:0" json:"cost_cents"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
