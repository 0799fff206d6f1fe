package services

import (
	"errors"
	"strings"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// Stats are the dashboard counters
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalReports    int64 `json:"total_reports"`
	TotalDonations  int64 `json:"total_donations"`
	SevereReports   int64 `json:"severe_reports"`
	ModerateReports int64 `json:"moderate_reports"`
	MinorReports    int64 `json:"minor_reports"`
}

// InterfaceAdminService manages admin accounts and dashboard data
type InterfaceAdminService interface {
	Login(email, password string) (*models.Admin, error)
	GetAdminByID(id uint) (*models.Admin, error)
	GetAllAdmins() ([]models.Admin, error)
	CreateAdmin(username, email, password string) (*models.Admin, error)
	CreateFirstAdmin(username, email, password string) (*models.Admin, error)
	GetStats() (*Stats, error)
}

// AdminService provides admin related services
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Login checks admin email and password
func (s *AdminService) Login(email, password string) (*models.Admin, error) {
	if email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	var admin models.Admin
	if err := s.DB.Where("email = ?", strings.TrimSpace(email)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.Authenticate(password) {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

// 2 GetAdminByID returns an admin
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// 3 GetAllAdmins returns every admin
func (s *AdminService) GetAllAdmins() ([]models.Admin, error) {
	admins := []models.Admin{}
	if err := s.DB.Order("id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// 4 CreateAdmin creates an admin. Username and email must be unused.
func (s *AdminService) CreateAdmin(username, email, password string) (*models.Admin, error) {
	return s.createAdmin(s.DB, username, email, password)
}

// 5 CreateFirstAdmin creates an admin only while none exists
func (s *AdminService) CreateFirstAdmin(username, email, password string) (*models.Admin, error) {
	var admin *models.Admin
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Admin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminAlreadyExists
		}

		var err error
		admin, err = s.createAdmin(tx, username, email, password)
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) createAdmin(db *gorm.DB, username, email, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	var count int64
	if err := db.Model(&models.Admin{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminAlreadyExists
	}

	admin := &models.Admin{Username: username, Email: email}
	if err := admin.SetPassword(password); err != nil {
		return nil, err
	}
	if err := db.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminAlreadyExists
		}
		return nil, err
	}
	return admin, nil
}

// 6 GetStats counts users, reports, donations and reports per severity
func (s *AdminService) GetStats() (*Stats, error) {
	stats := &Stats{}
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.DB.Model(&models.User{})},
		{&stats.TotalReports, s.DB.Model(&models.Report{})},
		{&stats.TotalDonations, s.DB.Model(&models.Donation{})},
		{&stats.SevereReports, s.DB.Model(&models.Report{}).Where("severity = ?", models.SeveritySevere)},
		{&stats.ModerateReports, s.DB.Model(&models.Report{}).Where("severity = ?", models.SeverityModerate)},
		{&stats.MinorReports, s.DB.Model(&models.Report{}).Where("severity = ?", models.SeverityMinor)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
