package code

var codeMessageMap = map[int]string{
	ErrSuccess:         "Success",
	ErrUnknown:         "Internal server error",
	ErrBind:            "Invalid request body",
	ErrValidation:      "Invalid request",
	ErrSessionRequired: "Unauthorized",
	ErrTooManyRequests: "Too many requests",

	ErrUserNotFound:            "User not found",
	ErrUserAlreadyExist:        "User already exists",
	ErrUserPasswordIncorrect:   "Invalid credentials",
	ErrUserCredentialsRequired: "Email and password are required",

	ErrAdminRequired:          "Unauthorized. Admin access required.",
	ErrAdminNotFound:          "Admin not found",
	ErrAdminPasswordIncorrect: "Invalid admin credentials",
	ErrAdminAlreadyExist:      "Admin already exists",
	ErrSetupKeyInvalid:        "Invalid setup key",

	ErrReportNotFound:       "Report not found",
	ErrNotReportOwner:       "You can only modify your own reports",
	ErrReportFieldsRequired: "Description and location are required",
	ErrInvalidReportType:    "Type must be at least 3 characters long",
	ErrInvalidDate:          "Invalid date format",

	ErrDonationNotFound:       "Donation not found",
	ErrDonationFieldsRequired: "Name, email, phone, type and amount are required",

	ErrDatabase:       "Database error",
	ErrRecordNotFound: "Record not found",
	ErrFileNotFound:   "File not found",
}

var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrSessionRequired: StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	ErrUserNotFound:            StatusNotFound,
	ErrUserAlreadyExist:        StatusBadRequest,
	ErrUserPasswordIncorrect:   StatusUnauthorized,
	ErrUserCredentialsRequired: StatusBadRequest,

	ErrAdminRequired:          StatusUnauthorized,
	ErrAdminNotFound:          StatusNotFound,
	ErrAdminPasswordIncorrect: StatusUnauthorized,
	ErrAdminAlreadyExist:      StatusBadRequest,
	ErrSetupKeyInvalid:        StatusForbidden,

	ErrReportNotFound:       StatusNotFound,
	ErrNotReportOwner:       StatusForbidden,
	ErrReportFieldsRequired: StatusBadRequest,
	ErrInvalidReportType:    StatusBadRequest,
	ErrInvalidDate:          StatusBadRequest,

	ErrDonationNotFound:       StatusNotFound,
	ErrDonationFieldsRequired: StatusBadRequest,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
	ErrFileNotFound:   StatusNotFound,
}

// GetMessage returns the default message of an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus returns the HTTP status of an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
