package controllers

import (
	"errors"

	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController defines the user session endpoints
type InterfaceAuthController interface {
	Signup()
	Login()
	CheckSession()
	Logout()
	ResetPassword()
}

// AuthController handles user signup, login and sessions
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates a new auth controller
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// SignupRequest is the body of POST /signup
type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest is the body of POST /login and POST /admin/login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ResetPasswordRequest is the body of POST /reset-password. The new
// password may be sent as either password or new_password.
type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// HandleAuthFunc returns a gin handler for the user auth endpoints
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "signup":
			controller.Signup()
		case "login":
			controller.Login()
		case "checkSession":
			controller.CheckSession()
		case "logout":
			controller.Logout()
		case "resetPassword":
			controller.ResetPassword()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *AuthController) users() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1. Signup registers a user and logs them in
func (c *AuthController) Signup() {
	var req SignupRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind)
		return
	}

	user, err := c.users().Signup(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrFieldsRequired) {
			response.ParamError(c.Ctx, "Username, email and password are required")
			return
		}
		failWithError(c.Ctx, err)
		return
	}

	session := middleware.GetSession(c.Ctx)
	session.SetUser(user.ID)
	if !saveSession(c.Ctx, session.Save) {
		return
	}
	response.Created(c.Ctx, user)
}

// 2. Login checks the credentials and stores the user in the session
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind)
		return
	}

	user, err := c.users().Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrFieldsRequired) {
			response.Fail(c.Ctx, code.ErrUserCredentialsRequired)
			return
		}
		failWithError(c.Ctx, err)
		return
	}

	session := middleware.GetSession(c.Ctx)
	session.SetUser(user.ID)
	if !saveSession(c.Ctx, session.Save) {
		return
	}
	Logger.FromContext(c.Ctx.Request.Context()).Infof("user %d logged in", user.ID)
	response.Success(c.Ctx, user)
}

// 3. CheckSession returns the logged in user. A session whose user was
// deleted is cleared.
func (c *AuthController) CheckSession() {
	session := middleware.GetSession(c.Ctx)
	userID, ok := session.UserID()
	if !ok {
		response.Fail(c.Ctx, code.ErrSessionRequired)
		return
	}

	user, err := c.users().GetUserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			session.ClearUser()
			if !saveSession(c.Ctx, session.Save) {
				return
			}
			response.Fail(c.Ctx, code.ErrSessionRequired)
			return
		}
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// 4. Logout removes the user from the session
func (c *AuthController) Logout() {
	session := middleware.GetSession(c.Ctx)
	session.ClearUser()
	if !saveSession(c.Ctx, session.Save) {
		return
	}
	response.Message(c.Ctx, "Logged out successfully")
}

// 5. ResetPassword replaces the password of the user with the given email
func (c *AuthController) ResetPassword() {
	var req ResetPasswordRequest
	if err := c.Ctx.ShouldBind(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind)
		return
	}

	password := req.Password
	if password == "" {
		password = req.NewPassword
	}

	if err := c.users().ResetPassword(req.Email, password); err != nil {
		switch {
		case errors.Is(err, services.ErrFieldsRequired):
			response.ParamError(c.Ctx, "Email and new password are required")
			return
		case errors.Is(err, services.ErrUserNotFound):
			response.FailWithMessage(c.Ctx, code.ErrUserNotFound, "No user found with this email")
			return
		}
		failWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "Password reset successfully")
}
