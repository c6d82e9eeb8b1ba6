package repository

import (
	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// employeeRepository implements the EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository instance
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create creates a new employee
func (r *employeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// GetByUUID retrieves one employee scoped to its owner
func (r *employeeRepository) GetByUUID(userID uint, uuid string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByUserID retrieves all employees for a user
func (r *employeeRepository) GetByUserID(userID uint) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&employees).Error
	return employees, err
}

// Update updates an existing employee
func (r *employeeRepository) Update(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

// Delete soft-deletes an employee scoped to its owner
func (r *employeeRepository) Delete(userID uint, uuid string) error {
	result := r.db.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&models.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUserID returns the number of employees a user has. Used for plan
// limit checks before create.
func (r *employeeRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// TotalActiveMonthlyCost sums cost plus bonus of active employees, in cents
func (r *employeeRepository) TotalActiveMonthlyCost(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Employee{}).
		Where("user_id = ? AND status = ?", userID, models.EmployeeStatusAtivo).
		Select("COALESCE(SUM(monthly_cost_cents + monthly_bonus_cents), 0)").
		Scan(&total).Error
	return total, err
}
