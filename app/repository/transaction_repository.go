package repository

import (
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// transactionRepository implements the TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

// GetByUUID retrieves one transaction scoped to its owner
func (r *transactionRepository) GetByUUID(userID uint, uuid string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetByUserID retrieves a page of the user's transactions, newest first
func (r *transactionRepository) GetByUserID(userID uint, offset, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// GetByMonth retrieves all transactions in [monthStart, monthEnd)
func (r *transactionRepository) GetByMonth(userID uint, monthStart, monthEnd time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, monthStart, monthEnd).
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}

// Update updates an existing transaction
func (r *transactionRepository) Update(tx *models.Transaction) error {
	return r.db.Save(tx).Error
}

// Delete soft-deletes a transaction scoped to its owner
func (r *transactionRepository) Delete(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUserID returns the number of transactions a user has
func (r *transactionRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
