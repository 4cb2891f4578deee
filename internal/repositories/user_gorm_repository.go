package repositories

import (
	"context"

	"tunebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "user", "create")
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// Update saves every column of user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return translate(res.Error, "user", "update")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user", "update")
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, translate(err, "user", "get")
	}
	return &user, nil
}
