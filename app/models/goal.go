package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Type        string         `gorm:"type:varchar(20);default:'curto_prazo'" json:"type" validate:"oneof=curto_prazo longo_prazo"`
	Deadline    *time.Time     `gorm:"type:date;default:null" json:"deadline,omitempty"`
	Progress    int            `gorm:"not null;default:0" json:"progress" validate:"gte=0,lte=100"`
	Description string         `gorm:"type:varchar(500);default:null" json:"description" validate:"max=500"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Goal) Validate() error {
	v := validator.New()

	return v.Struct(g)
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == "" {
		g.UUID = uuid.New().String()
	}
	return nil
}
