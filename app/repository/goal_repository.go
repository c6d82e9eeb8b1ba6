package repository

import (
	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// goalRepository implements the GoalRepository interface
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository instance
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create creates a new goal
func (r *goalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// GetByUUID retrieves one goal scoped to its owner
func (r *goalRepository) GetByUUID(userID uint, uuid string) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetByUserID retrieves all goals for a user, newest first
func (r *goalRepository) GetByUserID(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// Update updates an existing goal
func (r *goalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete soft-deletes a goal scoped to its owner
func (r *goalRepository) Delete(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
