package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HorizonCurtoPrazo = "curto_prazo"
	HorizonLongoPrazo = "longo_prazo"

	TaskPriorityBaixa = "baixa"
	TaskPriorityMedia = "media"
	TaskPriorityAlta  = "alta"

	TaskStatusPendente    = "pendente"
	TaskStatusEmAndamento = "em_andamento"
	TaskStatusConcluida   = "concluida"
)

type Task struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Completed bool           `gorm:"default:false" json:"completed"`
	Date      time.Time      `gorm:"type:date;not null" json:"date"`
	Type      string         `gorm:"type:varchar(20);default:'curto_prazo'" json:"type" validate:"oneof=curto_prazo longo_prazo"`
	Deadline  *time.Time     `gorm:"type:date;default:null" json:"deadline,omitempty"`
	Priority  string         `gorm:"type:varchar(10);default:'media'" json:"priority" validate:"oneof=baixa media alta"`
	Status    string         `gorm:"type:varchar(20);default:'pendente'" json:"status" validate:"oneof=pendente em_andamento concluida"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Task) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}
