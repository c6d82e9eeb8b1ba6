package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetProfileRepository returns the profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetBusinessProfileRepository returns the business profile repository instance
func (f *Factory) GetBusinessProfileRepository() BusinessProfileRepository {
	return f.GetRepositories().BusinessProfile
}

// GetTransactionRepository returns the transaction repository instance
func (f *Factory) GetTransactionRepository() TransactionRepository {
	return f.GetRepositories().Transaction
}

// GetEmployeeRepository returns the employee repository instance
func (f *Factory) GetEmployeeRepository() EmployeeRepository {
	return f.GetRepositories().Employee
}

// GetClientRepository returns the client repository instance
func (f *Factory) GetClientRepository() ClientRepository {
	return f.GetRepositories().Client
}

// GetTaskRepository returns the task repository instance
func (f *Factory) GetTaskRepository() TaskRepository {
	return f.GetRepositories().Task
}

// GetGoalRepository returns the goal repository instance
func (f *Factory) GetGoalRepository() GoalRepository {
	return f.GetRepositories().Goal
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
