package services

import (
	"regexp"
	"strconv"
	"strings"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

var amountNumberPattern = regexp.MustCompile(`\d[\d,]*(\.\d+)?`)

// DonationInput holds the fields of a new donation
type DonationInput struct {
	FullName     string
	Email        string
	Phone        string
	Type         string
	Amount       string
	AmountNumber *float64
}

// AdminDonation is a donation with a summary of the report it supports
type AdminDonation struct {
	models.Donation
	ReportType        string `json:"report_type"`
	ReportLocation    string `json:"report_location"`
	ReportDescription string `json:"report_description"`
}

// InterfaceDonationService manages donations
type InterfaceDonationService interface {
	ListForReport(reportID uint) ([]models.Donation, error)
	CreateDonation(reportID uint, input DonationInput) (*models.Donation, error)
	ListAll() ([]AdminDonation, error)
	DeleteDonation(id uint) error
}

// DonationService implements InterfaceDonationService
type DonationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDonationService creates a new donation service
func NewDonationService(db *gorm.DB, cfg *config.Config) InterfaceDonationService {
	return &DonationService{
		DB:     db,
		Config: cfg,
	}
}

// ParseAmountNumber extracts the first number of a free text amount,
// e.g. "KES 5,000" gives 5000. It returns nil when there is none.
func ParseAmountNumber(amount string) *float64 {
	match := amountNumberPattern.FindString(amount)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func (s *DonationService) reportExists(reportID uint) error {
	var count int64
	if err := s.DB.Model(&models.Report{}).Where("id = ?", reportID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrReportNotFound
	}
	return nil
}

// 1 ListForReport returns the donations of a report, newest first
func (s *DonationService) ListForReport(reportID uint) ([]models.Donation, error) {
	if err := s.reportExists(reportID); err != nil {
		return nil, err
	}

	donations := []models.Donation{}
	if err := s.DB.Where("report_id = ?", reportID).
		Order("created_at DESC, id DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// 2 CreateDonation pledges a donation against a report
func (s *DonationService) CreateDonation(reportID uint, input DonationInput) (*models.Donation, error) {
	donation := &models.Donation{
		ReportID:     reportID,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Type:         strings.TrimSpace(input.Type),
		Amount:       strings.TrimSpace(input.Amount),
		AmountNumber: input.AmountNumber,
	}
	if err := donation.Validate(); err != nil {
		return nil, err
	}
	if err := s.reportExists(reportID); err != nil {
		return nil, err
	}
	if donation.AmountNumber == nil {
		donation.AmountNumber = ParseAmountNumber(donation.Amount)
	}

	if err := s.DB.Create(donation).Error; err != nil {
		return nil, err
	}
	return donation, nil
}

// 3 ListAll returns every donation with its report summary, newest first
func (s *DonationService) ListAll() ([]AdminDonation, error) {
	donations := []AdminDonation{}
	err := s.DB.Table("donations").
		Select("donations.*, reports.type AS report_type, reports.location AS report_location, reports.description AS report_description").
		Joins("JOIN reports ON reports.id = donations.report_id").
		Order("donations.created_at DESC, donations.id DESC").
		Scan(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// 4 DeleteDonation removes a donation
func (s *DonationService) DeleteDonation(id uint) error {
	result := s.DB.Delete(&models.Donation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}
