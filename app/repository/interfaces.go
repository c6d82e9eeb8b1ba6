package repository

import (
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// ProfileRepository defines the interface for subscription profile operations
type ProfileRepository interface {
	GetOrCreate(userID uint) (*models.Profile, error)
	Save(profile *models.Profile) error
	SetPlan(userID uint, plan string) error
}

// BusinessProfileRepository defines the interface for onboarding data
type BusinessProfileRepository interface {
	GetByUserID(userID uint) (*models.BusinessProfile, error)
	Upsert(profile *models.BusinessProfile) error
}

// TransactionRepository defines the interface for financial movements
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByUUID(userID uint, uuid string) (*models.Transaction, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Transaction, error)
	GetByMonth(userID uint, monthStart, monthEnd time.Time) ([]models.Transaction, error)
	Update(tx *models.Transaction) error
	Delete(userID uint, uuid string) error
	CountByUserID(userID uint) (int64, error)
}

// EmployeeRepository defines the interface for staff records
type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByUUID(userID uint, uuid string) (*models.Employee, error)
	GetByUserID(userID uint) ([]models.Employee, error)
	Update(employee *models.Employee) error
	Delete(userID uint, uuid string) error
	CountByUserID(userID uint) (int64, error)
	TotalActiveMonthlyCost(userID uint) (int64, error)
}

// ClientRepository defines the interface for customer records
type ClientRepository interface {
	Create(client *models.Client) error
	GetByUUID(userID uint, uuid string) (*models.Client, error)
	GetByUserID(userID uint) ([]models.Client, error)
	Update(client *models.Client) error
	Delete(userID uint, uuid string) error
	CountByUserID(userID uint) (int64, error)
	AddRevenueSnapshot(snapshot *models.ClientRevenueHistory) error
	GetRevenueHistory(userID uint, clientID uint) ([]models.ClientRevenueHistory, error)
}

// TaskRepository defines the interface for tasks
type TaskRepository interface {
	Create(task *models.Task) error
	GetByUUID(userID uint, uuid string) (*models.Task, error)
	GetByUserID(userID uint) ([]models.Task, error)
	GetByDate(userID uint, date time.Time) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(userID uint, uuid string) error
}

// GoalRepository defines the interface for goals
type GoalRepository interface {
	Create(goal *models.Goal) error
	GetByUUID(userID uint, uuid string) (*models.Goal, error)
	GetByUserID(userID uint) ([]models.Goal, error)
	Update(goal *models.Goal) error
	Delete(userID uint, uuid string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User            UserRepository
	Profile         ProfileRepository
	BusinessProfile BusinessProfileRepository
	Transaction     TransactionRepository
	Employee        EmployeeRepository
	Client          ClientRepository
	Task            TaskRepository
	Goal            GoalRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Profile:         NewProfileRepository(db),
		BusinessProfile: NewBusinessProfileRepository(db),
		Transaction:     NewTransactionRepository(db),
		Employee:        NewEmployeeRepository(db),
		Client:          NewClientRepository(db),
		Task:            NewTaskRepository(db),
		Goal:            NewGoalRepository(db),
	}
}
