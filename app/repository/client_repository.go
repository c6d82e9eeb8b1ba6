package repository

import (
	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// clientRepository implements the ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByUUID retrieves one client scoped to its owner
func (r *clientRepository) GetByUUID(userID uint, uuid string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByUserID retrieves all clients for a user
func (r *clientRepository) GetByUserID(userID uint) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&clients).Error
	return clients, err
}

// Update updates an existing client
func (r *clientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete soft-deletes a client scoped to its owner
func (r *clientRepository) Delete(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUserID returns the number of clients a user has
func (r *clientRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AddRevenueSnapshot records one revenue/cost data point for a client
func (r *clientRepository) AddRevenueSnapshot(snapshot *models.ClientRevenueHistory) error {
	return r.db.Create(snapshot).Error
}

// GetRevenueHistory returns a client's revenue snapshots, oldest first
func (r *clientRepository) GetRevenueHistory(userID uint, clientID uint) ([]models.ClientRevenueHistory, error) {
	var history []models.ClientRevenueHistory
	err := r.db.Where("user_id = ? AND client_id = ?", userID, clientID).
		Order("date ASC").
		Find(&history).Error
	return history, err
}
