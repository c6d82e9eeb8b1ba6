package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmployeeStatusAtivo   = "ativo"
	EmployeeStatusInativo = "inativo"
)

// Employee is a staff record owned by one user. Bonus fields require premium,
// the goal/revenue fields require pro; enforcement happens in the controller
// via entitlements.
type Employee struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UUID              string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Role              string         `gorm:"type:varchar(100)" json:"role" validate:"max=100"`
	Status            string         `gorm:"type:varchar(20);default:'ativo'" json:"status" validate:"oneof=ativo inativo"`
	MonthlyCostCents  int64          `gorm:"not null;default:0" json:"monthly_cost_cents" validate:"gte=0"`
	MonthlyBonusCents int64          `gorm:"not null;default:0" json:"monthly_bonus_cents" validate:"gte=0"`
	StartDate         time.Time      `gorm:"type:date" json:"start_date"`
	Notes             string         `gorm:"type:text" json:"notes"`

	// Pro-only fields.
	AssignedGoal          string `gorm:"type:varchar(200);default:null" json:"assigned_goal" validate:"max=200"`
	GeneratedRevenueCents int64  `gorm:"not null;default:0" json:"generated_revenue_cents" validate:"gte=0"`
	EstimatedProfitCents  int64  `gorm:"not null;default:0" json:"estimated_profit_cents"`
	GoalAchieved          bool   `gorm:"default:false" json:"goal_achieved"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Employee) Validate() error {
	v := validator.New()

	return v.Struct(e)
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return nil
}

// IsAtivo reports whether the employee counts toward active monthly cost.
func (e *Employee) IsAtivo() bool {
	return e.Status == EmployeeStatusAtivo
}
