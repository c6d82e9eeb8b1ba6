package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile binds a user identity to its current subscription plan. Exactly one
// row per user; plan is always one of the three canonical values and is only
// mutated by the payment webhook or an administrative write.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex" json:"user_id"`
	Plan      string         `gorm:"type:varchar(50);default:'free'" json:"plan"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetOrCreateProfile returns the existing profile row or lazily creates the
// default free one on first read.
func GetOrCreateProfile(db *gorm.DB, userID uint) (*Profile, error) {
	var p Profile
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			p = Profile{UserID: userID, Plan: "free"}
			if err := db.Create(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}
