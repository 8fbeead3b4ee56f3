package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"gorm.io/gorm"
)

// UserRepository persists accounts.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindAll returns every account.
func (r *UserRepository) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// FindByEmail returns the account with the given email.
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}

// FindByID returns one account.
func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

// Insert creates an account with an already hashed password.
func (r *UserRepository) Insert(email, hashedPassword, role string) (*model.User, error) {
	user := model.User{ID: uuid.NewString(), Email: email, Password: hashedPassword, Role: role}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("insert user %q: %w", email, err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(email, hashedPassword string) error {
	res := r.db.Model(&model.User{}).Where("email = ?", email).Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("update password for %q: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
