package controllers

import (
	"crypto/subtle"
	"errors"

	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminAuthController defines the admin session endpoints
type InterfaceAdminAuthController interface {
	Login()
	Logout()
	CheckSession()
	CreateFirstAdmin()
}

// AdminAuthController handles admin login, sessions and the first-admin setup
type AdminAuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminAuthController creates a new admin auth controller
func NewAdminAuthController(ctx *gin.Context, container *container.ServiceContainer) *AdminAuthController {
	return &AdminAuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// SetupAdminRequest is the body of POST /setup/create-admin
type SetupAdminRequest struct {
	SetupKey string `json:"setup_key"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAdminAuthFunc returns a gin handler for the admin auth endpoints
func HandleAdminAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "checkSession":
			controller.CheckSession()
		case "createFirstAdmin":
			controller.CreateFirstAdmin()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *AdminAuthController) admins() services.InterfaceAdminService {
	return c.Container.GetService("admin").(services.InterfaceAdminService)
}

// 1. Login checks the admin credentials and marks the session as admin
func (c *AdminAuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind)
		return
	}

	admin, err := c.admins().Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFieldsRequired):
			response.Fail(c.Ctx, code.ErrUserCredentialsRequired)
		case errors.Is(err, services.ErrInvalidCredentials):
			response.FailWithMessage(c.Ctx, code.ErrAdminPasswordIncorrect, "Invalid email or password")
		default:
			failWithError(c.Ctx, err)
		}
		return
	}

	session := middleware.GetSession(c.Ctx)
	session.SetAdmin(admin.ID)
	if !saveSession(c.Ctx, session.Save) {
		return
	}
	Logger.FromContext(c.Ctx.Request.Context()).Infof("admin %d logged in", admin.ID)
	response.Success(c.Ctx, admin)
}

// 2. Logout removes the admin keys from the session
func (c *AdminAuthController) Logout() {
	session := middleware.GetSession(c.Ctx)
	session.ClearAdmin()
	if !saveSession(c.Ctx, session.Save) {
		return
	}
	response.Message(c.Ctx, "Logged out successfully")
}

// 3. CheckSession returns the logged in admin. A session whose admin was
// deleted is cleared and answered with 404.
func (c *AdminAuthController) CheckSession() {
	session := middleware.GetSession(c.Ctx)
	adminID, ok := session.AdminID()
	if !ok {
		response.FailWithMessage(c.Ctx, code.ErrAdminRequired, "Not authenticated")
		return
	}

	admin, err := c.admins().GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			session.ClearAdmin()
			if !saveSession(c.Ctx, session.Save) {
				return
			}
			response.Fail(c.Ctx, code.ErrAdminNotFound)
			return
		}
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, admin)
}

// 4. CreateFirstAdmin bootstraps the first admin account. It requires
// ADMIN_SETUP_KEY to be configured and matched.
func (c *AdminAuthController) CreateFirstAdmin() {
	var req SetupAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind)
		return
	}

	expected := c.Container.GetConfig().AdminSetupKey
	if expected == "" {
		response.FailWithMessage(c.Ctx, code.ErrSetupKeyInvalid, "Setup not configured")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupKey), []byte(expected)) != 1 {
		response.Fail(c.Ctx, code.ErrSetupKeyInvalid)
		return
	}

	admin, err := c.admins().CreateFirstAdmin(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrFieldsRequired) {
			response.ParamError(c.Ctx, "Missing required fields")
			return
		}
		failWithError(c.Ctx, err)
		return
	}

	Logger.FromContext(c.Ctx.Request.Context()).Infof("first admin %q created", admin.Username)
	response.Created(c.Ctx, gin.H{
		"message":  "Admin created successfully",
		"username": admin.Username,
		"email":    admin.Email,
	})
}
