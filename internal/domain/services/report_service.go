package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/infrastructure/config"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"
	"disasterconnect-http-service/internal/infrastructure/storage"

	"gorm.io/gorm"
)

// Layouts accepted for a report date, tried in order
var reportDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CreateReportInput holds the fields of a new report. An empty Type asks the
// classifier for one.
type CreateReportInput struct {
	Type        string
	Location    string
	Description string
	UserID      *uint
	Image       *storage.File
	BaseURL     string
}

// ReportPatch holds the fields of a partial update. Nil fields are left alone.
type ReportPatch struct {
	Type         *string
	Location     *string
	Description  *string
	Severity     *string
	Image        *string
	ReporterName *string
	Date         *string
	NewImage     *storage.File
	BaseURL      string
}

// InterfaceReportService manages disaster reports
type InterfaceReportService interface {
	ListReports() ([]models.Report, error)
	ListUserReports(userID uint) ([]models.Report, error)
	GetReport(id uint) (*models.Report, error)
	CreateReport(ctx context.Context, input CreateReportInput) (*models.Report, error)
	UpdateReport(ctx context.Context, id, userID uint, patch ReportPatch) (*models.Report, error)
	DeleteReport(ctx context.Context, id, userID uint) error
	AdminDeleteReport(ctx context.Context, id uint) error
	DiscardImages(ctx context.Context, reports []models.Report)
}

// ReportService implements InterfaceReportService
type ReportService struct {
	DB         *gorm.DB
	Config     *config.Config
	Classifier InterfaceClassifierService
	Images     storage.ImageStore
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, cfg *config.Config, classifier InterfaceClassifierService, images storage.ImageStore) InterfaceReportService {
	return &ReportService{
		DB:         db,
		Config:     cfg,
		Classifier: classifier,
		Images:     images,
	}
}

// ParseReportDate parses an ISO-8601 timestamp or a plain date into UTC
func ParseReportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func (s *ReportService) withDonations(db *gorm.DB) *gorm.DB {
	return db.Preload("Donations", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC, id DESC")
	})
}

// 1 ListReports returns every report, newest first
func (s *ReportService) ListReports() ([]models.Report, error) {
	reports := []models.Report{}
	if err := s.withDonations(s.DB).Order("created_at DESC, id DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// 2 ListUserReports returns the reports created by userID, newest first
func (s *ReportService) ListUserReports(userID uint) ([]models.Report, error) {
	reports := []models.Report{}
	if err := s.withDonations(s.DB).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// 3 GetReport returns a report with its donations
func (s *ReportService) GetReport(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.withDonations(s.DB).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// 4 CreateReport classifies, stores the image and saves a new report. A
// session user that no longer exists is treated as anonymous.
func (s *ReportService) CreateReport(ctx context.Context, input CreateReportInput) (*models.Report, error) {
	rlog := Logger.FromContext(ctx)

	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.Location)
	if description == "" || location == "" {
		return nil, ErrReportFieldsRequired
	}

	manualType := strings.TrimSpace(input.Type)
	if manualType != "" {
		if err := models.ValidateReportType(manualType); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		Location:     location,
		Description:  description,
		ReporterName: models.AnonymousReporter,
		Donations:    []models.Donation{},
	}

	if input.UserID != nil {
		var user models.User
		if err := s.DB.First(&user, *input.UserID).Error; err == nil {
			report.UserID = &user.ID
			report.ReporterName = user.Username
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if manualType != "" {
		report.Type = manualType
	} else {
		typeResult := s.Classifier.ClassifyType(ctx, description)
		report.Type = typeResult.Label
		report.TypeConfidence = typeResult.ConfidencePtr()
		report.TypeExplanation = typeResult.ExplanationPtr()
	}

	severity := s.Classifier.ClassifySeverity(ctx, description)
	report.Severity = severity.Label
	report.SeverityConfidence = severity.ConfidencePtr()
	report.SeverityExplanation = severity.ExplanationPtr()

	if input.Image != nil {
		s.attachImage(ctx, report, input.Image, input.BaseURL)
	}

	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	rlog.Infof("report %d created: type=%s severity=%s", report.ID, report.Type, report.Severity)
	return report, nil
}

// attachImage stores file and points the report at it. A failed upload
// leaves the report without an image.
func (s *ReportService) attachImage(ctx context.Context, report *models.Report, file *storage.File, baseURL string) bool {
	if s.Images == nil {
		return false
	}
	stored, err := s.Images.Store(ctx, file, baseURL)
	if err != nil {
		Logger.FromContext(ctx).WithError(err).Error("image upload failed, saving report without image")
		return false
	}
	report.Image = &stored.URL
	report.ImageKey = stored.Key
	report.ImageBackend = stored.Backend
	return true
}

func (s *ReportService) ownedReport(ctx context.Context, id, userID uint) (*models.Report, error) {
	var report models.Report
	if err := s.DB.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if !report.IsOwnedBy(userID) {
		return nil, ErrNotReportOwner
	}
	return &report, nil
}

// 5 UpdateReport applies patch to a report owned by userID
func (s *ReportService) UpdateReport(ctx context.Context, id, userID uint, patch ReportPatch) (*models.Report, error) {
	report, err := s.ownedReport(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	oldKey, oldBackend := report.ImageKey, report.ImageBackend
	discardOld := false

	if patch.Type != nil {
		value := strings.TrimSpace(*patch.Type)
		if err := models.ValidateReportType(value); err != nil {
			return nil, err
		}
		if value != report.Type {
			report.Type = value
			report.TypeConfidence = nil
			report.TypeExplanation = nil
		}
	}
	if patch.Location != nil {
		value := strings.TrimSpace(*patch.Location)
		if value == "" {
			return nil, ErrReportFieldsRequired
		}
		report.Location = value
	}
	if patch.Date != nil && strings.TrimSpace(*patch.Date) != "" {
		date, err := ParseReportDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		report.Date = date
	}
	if patch.ReporterName != nil && strings.TrimSpace(*patch.ReporterName) != "" {
		report.ReporterName = strings.TrimSpace(*patch.ReporterName)
	}
	if patch.Image != nil {
		if value := strings.TrimSpace(*patch.Image); value != "" {
			report.Image = &value
		} else {
			report.Image = nil
		}
		report.ImageKey = ""
		report.ImageBackend = ""
		discardOld = true
	}

	descriptionChanged := false
	if patch.Description != nil {
		value := strings.TrimSpace(*patch.Description)
		if value == "" {
			return nil, ErrReportFieldsRequired
		}
		descriptionChanged = value != report.Description
		report.Description = value
	}

	if patch.Severity != nil && strings.TrimSpace(*patch.Severity) != "" {
		report.Severity = strings.TrimSpace(*patch.Severity)
		report.SeverityConfidence = nil
		report.SeverityExplanation = nil
	} else if descriptionChanged {
		severity := s.Classifier.ClassifySeverity(ctx, report.Description)
		report.Severity = severity.Label
		report.SeverityConfidence = severity.ConfidencePtr()
		report.SeverityExplanation = severity.ExplanationPtr()
	}

	if patch.NewImage != nil && s.attachImage(ctx, report, patch.NewImage, patch.BaseURL) {
		discardOld = true
	}

	if err := s.DB.WithContext(ctx).Omit("Donations").Save(report).Error; err != nil {
		return nil, err
	}

	if discardOld {
		s.discardImage(ctx, oldBackend, oldKey)
	}
	return s.GetReport(report.ID)
}

// 6 DeleteReport removes a report owned by userID together with its donations
func (s *ReportService) DeleteReport(ctx context.Context, id, userID uint) error {
	report, err := s.ownedReport(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.deleteReport(ctx, report)
}

// 7 AdminDeleteReport removes any report together with its donations
func (s *ReportService) AdminDeleteReport(ctx context.Context, id uint) error {
	var report models.Report
	if err := s.DB.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return s.deleteReport(ctx, &report)
}

func (s *ReportService) deleteReport(ctx context.Context, report *models.Report) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", report.ID).Delete(&models.Donation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, report.ID).Error
	})
	if err != nil {
		return err
	}
	s.discardImage(ctx, report.ImageBackend, report.ImageKey)
	return nil
}

// 8 DiscardImages removes the stored images of deleted reports
func (s *ReportService) DiscardImages(ctx context.Context, reports []models.Report) {
	for _, r := range reports {
		s.discardImage(ctx, r.ImageBackend, r.ImageKey)
	}
}

func (s *ReportService) discardImage(ctx context.Context, backend, key string) {
	if s.Images == nil || key == "" {
		return
	}
	if err := s.Images.Delete(ctx, backend, key); err != nil {
		Logger.FromContext(ctx).WithError(err).Warn("could not remove stored image")
	}
}
