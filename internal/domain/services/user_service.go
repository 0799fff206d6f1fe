package services

import (
	"context"
	"errors"
	"strings"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceUserService manages regular user accounts
type InterfaceUserService interface {
	Signup(username, email, password string) (*models.User, error)
	Login(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	ResetPassword(email, newPassword string) error
	DeleteUser(ctx context.Context, id uint) ([]models.Report, error)
}

// UserService implements InterfaceUserService on gorm
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Signup creates an account. Username and email must both be unused.
func (s *UserService) Signup(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	var count int64
	if err := s.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExists
	}

	user := &models.User{Username: username, Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.DB.Create(user).Error; err != nil {
		// a concurrent signup can pass the count and lose on the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// 2 Login checks email and password
func (s *UserService) Login(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	var user models.User
	if err := s.DB.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Authenticate(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// 3 GetUserByID returns a user
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 4 GetAllUsers returns every user
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// 5 ResetPassword rehashes the password of the user with email
func (s *UserService) ResetPassword(email, newPassword string) error {
	if email == "" || newPassword == "" {
		return ErrFieldsRequired
	}

	var user models.User
	if err := s.DB.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.DB.Model(&user).Update("password_hash", user.PasswordHash).Error
}

// 6 DeleteUser removes the user with their reports and the donations on
// those reports. The removed reports are returned so their images can be cleaned up.
func (s *UserService) DeleteUser(ctx context.Context, id uint) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Find(&reports).Error; err != nil {
			return err
		}
		if len(reports) > 0 {
			ids := make([]uint, 0, len(reports))
			for _, r := range reports {
				ids = append(ids, r.ID)
			}
			if err := tx.Where("report_id IN ?", ids).Delete(&models.Donation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}
