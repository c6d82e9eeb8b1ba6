package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	BusinessTypeComercioLocal = "comercio_local"
	BusinessTypeEcommerce     = "ecommerce"
	BusinessTypeServicos      = "servicos"
	BusinessTypeInfoprodutor  = "infoprodutor"
	BusinessTypeRestaurante   = "restaurante"
	BusinessTypeAgencia       = "agencia"
	BusinessTypeAutonomo      = "autonomo"
	BusinessTypeOutro         = "outro"
)

// BusinessProfile holds the onboarding data describing the user's business.
type BusinessProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex" json:"user_id"`
	BusinessName string    `gorm:"type:varchar(200)" json:"business_name" validate:"required,min=2,max=200"`
	BusinessType string    `gorm:"type:varchar(50)" json:"business_type" validate:"oneof=comercio_local ecommerce servicos infoprodutor restaurante agencia autonomo outro"`
	WhatYouSell  string    `gorm:"type:varchar(500);default:null" json:"what_you_sell" validate:"max=500"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (bp *BusinessProfile) Validate() error {
	v := validator.New()

	return v.Struct(bp)
}
