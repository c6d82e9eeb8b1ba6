package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionEntrada       = "entrada"
	TransactionSaida         = "saida"
	TransactionSalario       = "salario"
	TransactionGastoFixo     = "gasto_fixo"
	TransactionGastoVariavel = "gasto_variavel"
)

// Transaction is a single financial movement. Values are stored in cents to
// avoid float drift on sums.
type Transaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Type        string         `gorm:"type:varchar(30);not null;index" json:"type" validate:"oneof=entrada saida salario gasto_fixo gasto_variavel"`
	ValueCents  int64          `gorm:"not null" json:"value_cents" validate:"gt=0"`
	Date        time.Time      `gorm:"type:date;not null;index" json:"date"`
	Description string         `gorm:"type:varchar(500);default:null" json:"description" validate:"max=500"`
	ExpenseType string         `gorm:"type:varchar(100);default:null" json:"expense_type" validate:"max=100"`
	ReceiptKey  string         `gorm:"type:varchar(255);default:''" json:"receipt_key"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Transaction) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}

// Month returns the YYYY-MM bucket the transaction belongs to.
func (t *Transaction) Month() string {
	return t.Date.Format("2006-01")
}
