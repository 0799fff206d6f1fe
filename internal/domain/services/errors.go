package services

import (
	"errors"

	"disasterconnect-http-service/internal/domain/models"
)

// Sentinel errors translated to HTTP responses by the controllers
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFieldsRequired     = errors.New("required fields missing")

	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin already exists")

	ErrReportNotFound       = errors.New("report not found")
	ErrNotReportOwner       = errors.New("not the owner of the report")
	ErrReportFieldsRequired = errors.New("description and location are required")
	ErrInvalidDate          = errors.New("invalid date format")

	ErrDonationNotFound = errors.New("donation not found")
)

// IsValidationError reports whether err is a client side validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, models.ErrDonationFieldsRequired) ||
		errors.Is(err, models.ErrInvalidReportType) ||
		errors.Is(err, ErrFieldsRequired) ||
		errors.Is(err, ErrReportFieldsRequired) ||
		errors.Is(err, ErrInvalidDate)
}
