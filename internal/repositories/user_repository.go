package repositories

import (
	"github.com/JeBooking/UCBE/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByDeviceID(deviceID string) (*models.User, error)
	UpdateUsername(deviceID, username string) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByDeviceID retrieves a user by device ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByDeviceID(deviceID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("device_id = ?", deviceID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUsername overwrites the stored display name for a device
func (r *PostgresUserRepository) UpdateUsername(deviceID, username string) error {
	return r.db.Model(&models.User{}).Where("device_id = ?", deviceID).Update("current_username", username).Error
}
