package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByToken(token string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	SetToken(id uint, token string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("username = ?", username)
}

func (r *userRepository) FindByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.findOne("token = ?", token)
}

func (r *userRepository) findOne(query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	return r.exists("username = ?", username)
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	return r.exists("email = ?", email)
}

func (r *userRepository) exists(query string, arg string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) SetToken(id uint, token string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to update token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
