package billing

import (
	"context"
	"strings"
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the webhook processor. Every
// method takes the delivery context so the controller timeout bounds the
// database work.
type Repository interface {
	FindUserIDByEmail(ctx context.Context, email string) (uint, error)
	GetOrCreateProfile(ctx context.Context, userID uint) (*models.Profile, error)
	SaveProfile(ctx context.Context, p *models.Profile) error
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindUserIDByEmail(ctx context.Context, email string) (uint, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *gormRepository) GetOrCreateProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return models.GetOrCreateProfile(r.db.WithContext(ctx), userID)
}

func (r *gormRepository) SaveProfile(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentWebhookEvent
	if err := r.db.WithContext(ctx).Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
