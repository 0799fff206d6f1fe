package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Severity labels
const (
	SeverityMinor    = "Minor"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
)

// Reporter names used when no user is attached
const (
	AnonymousReporter = "Anonymous"
	UnknownReporter   = "Unknown Reporter"
)

// MinReportTypeLength is the shortest accepted report type, in characters
const MinReportTypeLength = 3

// Column widths of the short report fields, in characters
const (
	MaxSeverityLength     = 20
	MaxReporterNameLength = 80
)

// ErrInvalidReportType is returned when a report type is shorter than MinReportTypeLength
var ErrInvalidReportType = errors.New("type must be at least 3 characters long")

// Report represents a disaster incident submitted by a user or anonymously
type Report struct {
	BaseModel
	Type                string    `gorm:"type:text;not null" json:"type"`
	TypeConfidence      *float64  `json:"type_confidence"`
	TypeExplanation     *string   `gorm:"type:text" json:"type_explanation"`
	Location            string    `gorm:"type:text;not null" json:"location"`
	Date                time.Time `gorm:"index" json:"date"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	Image               *string   `gorm:"type:text" json:"image"`
	ImageKey            string    `gorm:"type:varchar(500)" json:"-"` // storage key, used to remove the image
	ImageBackend        string    `gorm:"type:varchar(20)" json:"-"`
	Severity            string    `gorm:"type:varchar(20);index" json:"severity"`
	SeverityConfidence  *float64  `json:"severity_confidence"`
	SeverityExplanation *string   `gorm:"type:text" json:"severity_explanation"`
	ReporterName        string    `gorm:"type:varchar(80);not null;default:'Unknown Reporter'" json:"reporter_name"`
	UserID              *uint     `gorm:"index" json:"user_id"` // nil for anonymous reports

	Donations []Donation `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"donations"`
}

// ValidateReportType checks the minimum length of a report type
func ValidateReportType(value string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < MinReportTypeLength {
		return ErrInvalidReportType
	}
	return nil
}

// BeforeSave enforces the report invariants on every insert and update
func (r *Report) BeforeSave(tx *gorm.DB) error {
	if err := ValidateReportType(r.Type); err != nil {
		return err
	}
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	if r.ReporterName == "" {
		r.ReporterName = UnknownReporter
	}
	r.Severity = truncateRunes(r.Severity, MaxSeverityLength)
	r.ReporterName = truncateRunes(r.ReporterName, MaxReporterNameLength)
	return nil
}

// truncateRunes cuts s to at most n characters
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// IsOwnedBy reports whether userID created the report. Anonymous reports have no owner.
func (r *Report) IsOwnedBy(userID uint) bool {
	return r.UserID != nil && *r.UserID == userID
}
