package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusCreated - 201: resource created.
	StatusCreated = 201
	// StatusBadRequest - 400: invalid request.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: authentication required.
	StatusUnauthorized = 401
	// StatusForbidden - 403: not allowed.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: rate limited.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: server error.
	StatusInternalServerError = 500
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body could not be bound.
	ErrBind
	// ErrValidation - 400: request validation failed.
	ErrValidation
	// ErrSessionRequired - 401: no user session.
	ErrSessionRequired
	// ErrTooManyRequests - 429: rate limited.
	ErrTooManyRequests
)

// User errors (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: username or email taken.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: wrong credentials.
	ErrUserPasswordIncorrect
	// ErrUserCredentialsRequired - 400: email or password missing.
	ErrUserCredentialsRequired
)

// Admin errors (102xxx).
const (
	// ErrAdminRequired - 401: no admin session.
	ErrAdminRequired int = iota + 102000
	// ErrAdminNotFound - 404: admin not found.
	ErrAdminNotFound
	// ErrAdminPasswordIncorrect - 401: wrong admin credentials.
	ErrAdminPasswordIncorrect
	// ErrAdminAlreadyExist - 400: an admin already exists.
	ErrAdminAlreadyExist
	// ErrSetupKeyInvalid - 403: setup key missing or wrong.
	ErrSetupKeyInvalid
)

// Report errors (103xxx).
const (
	// ErrReportNotFound - 404: report not found.
	ErrReportNotFound int = iota + 103000
	// ErrNotReportOwner - 403: report belongs to someone else.
	ErrNotReportOwner
	// ErrReportFieldsRequired - 400: description or location missing.
	ErrReportFieldsRequired
	// ErrInvalidReportType - 400: type shorter than three characters.
	ErrInvalidReportType
	// ErrInvalidDate - 400: unparseable date.
	ErrInvalidDate
)

// Donation errors (104xxx).
const (
	// ErrDonationNotFound - 404: donation not found.
	ErrDonationNotFound int = iota + 104000
	// ErrDonationFieldsRequired - 400: required donation field missing.
	ErrDonationFieldsRequired
)

// Storage errors (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
	// ErrFileNotFound - 404: uploaded file not found.
	ErrFileNotFound
)
