package repository

import (
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate returns the user's profile row, creating the free default on
// first read.
func (r *profileRepository) GetOrCreate(userID uint) (*models.Profile, error) {
	return models.GetOrCreateProfile(r.db, userID)
}

// Save persists the full profile row
func (r *profileRepository) Save(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// SetPlan updates only the plan column for a user
func (r *profileRepository) SetPlan(userID uint, plan string) error {
	return r.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"plan": plan, "updated_at": time.Now()}).Error
}

// businessProfileRepository implements the BusinessProfileRepository interface
type businessProfileRepository struct {
	db *gorm.DB
}

// NewBusinessProfileRepository creates a new business profile repository instance
func NewBusinessProfileRepository(db *gorm.DB) BusinessProfileRepository {
	return &businessProfileRepository{db: db}
}

// GetByUserID retrieves the onboarding data for a user
func (r *businessProfileRepository) GetByUserID(userID uint) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or updates the single onboarding row per user
func (r *businessProfileRepository) Upsert(profile *models.BusinessProfile) error {
	var existing models.BusinessProfile
	err := r.db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(profile).Error
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	return r.db.Save(profile).Error
}
