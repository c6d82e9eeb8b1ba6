package repository

import (
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// taskRepository implements the TaskRepository interface
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task
func (r *taskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByUUID retrieves one task scoped to its owner
func (r *taskRepository) GetByUUID(userID uint, uuid string) (*models.Task, error) {
	var task models.Task
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByUserID retrieves all tasks for a user, pending first
func (r *taskRepository) GetByUserID(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ?", userID).
		Order("completed ASC, date DESC").
		Find(&tasks).Error
	return tasks, err
}

// GetByDate retrieves the tasks of one day
func (r *taskRepository) GetByDate(userID uint, date time.Time) ([]models.Task, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	var tasks []models.Task
	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("priority DESC").
		Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task
func (r *taskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft-deletes a task scoped to its owner
func (r *taskRepository) Delete(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
