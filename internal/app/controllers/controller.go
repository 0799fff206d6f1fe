package controllers

import (
	"errors"
	"strconv"
	"strings"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// serviceErrorCodes maps domain sentinel errors to response codes
var serviceErrorCodes = []struct {
	err  error
	code int
}{
	{services.ErrUserNotFound, code.ErrUserNotFound},
	{services.ErrUserAlreadyExists, code.ErrUserAlreadyExist},
	{services.ErrInvalidCredentials, code.ErrUserPasswordIncorrect},
	{services.ErrFieldsRequired, code.ErrValidation},
	{services.ErrAdminNotFound, code.ErrAdminNotFound},
	{services.ErrAdminAlreadyExists, code.ErrAdminAlreadyExist},
	{services.ErrReportNotFound, code.ErrReportNotFound},
	{services.ErrNotReportOwner, code.ErrNotReportOwner},
	{services.ErrReportFieldsRequired, code.ErrReportFieldsRequired},
	{services.ErrInvalidDate, code.ErrInvalidDate},
	{services.ErrDonationNotFound, code.ErrDonationNotFound},
	{models.ErrInvalidReportType, code.ErrInvalidReportType},
	{models.ErrDonationFieldsRequired, code.ErrDonationFieldsRequired},
	{gorm.ErrRecordNotFound, code.ErrRecordNotFound},
}

// failWithError translates a service error into an error response.
// Unrecognised errors are logged and reported as database errors.
func failWithError(ctx *gin.Context, err error) {
	for _, m := range serviceErrorCodes {
		if errors.Is(err, m.err) {
			response.Fail(ctx, m.code)
			return
		}
	}
	Logger.FromContext(ctx.Request.Context()).WithError(err).Error("request failed")
	response.Fail(ctx, code.ErrDatabase)
}

// idParam parses a positive numeric path parameter. It writes a 404 with
// notFound when the parameter is not a valid id.
func idParam(ctx *gin.Context, name string, notFound int) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(ctx, notFound)
		return 0, false
	}
	return uint(id), true
}

// requestBaseURL returns scheme and host of the request, honouring proxy headers
func requestBaseURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	// proxies may append, the first value is the client facing scheme
	proto := strings.ToLower(strings.TrimSpace(strings.Split(ctx.GetHeader("X-Forwarded-Proto"), ",")[0]))
	if proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + ctx.Request.Host
}

// saveSession writes the session cookie, responding 500 on failure
func saveSession(ctx *gin.Context, save func(*gin.Context) error) bool {
	if err := save(ctx); err != nil {
		Logger.FromContext(ctx.Request.Context()).WithError(err).Error("could not write session cookie")
		response.ServerError(ctx)
		return false
	}
	return true
}

func invalidMethod(ctx *gin.Context) {
	response.FailWithMessage(ctx, code.ErrBind, "invalid method")
}
