package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrDonationFieldsRequired is returned when a donation misses one of its required fields
var ErrDonationFieldsRequired = errors.New("name, email, phone, type and amount are required")

// Donation is a pledge of support attached to a report
type Donation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReportID     uint      `gorm:"not null;index" json:"report_id"`
	FullName     string    `gorm:"type:varchar(120);not null" json:"name"`
	Email        string    `gorm:"type:varchar(120);not null" json:"email"`
	Phone        string    `gorm:"type:varchar(40);not null" json:"phone"`
	Type         string    `gorm:"type:varchar(60);not null" json:"type"` // e.g. "Money", "Food"
	Amount       string    `gorm:"type:varchar(120);not null" json:"amount"`
	AmountNumber *float64  `json:"amount_number"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// Validate checks that every required field is present
func (d *Donation) Validate() error {
	for _, v := range []string{d.FullName, d.Email, d.Phone, d.Type, d.Amount} {
		if strings.TrimSpace(v) == "" {
			return ErrDonationFieldsRequired
		}
	}
	return nil
}

// BeforeCreate validates the donation and stamps it in UTC
func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	return nil
}
