package controllers

import (
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController defines the moderation endpoints
type InterfaceAdminController interface {
	GetUsers()
	DeleteUser()
	GetReports()
	DeleteReport()
	GetDonations()
	DeleteDonation()
	GetStats()
}

// AdminController serves the admin dashboard. Every route is behind
// middleware.RequireAdmin.
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController creates a new admin controller
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAdminFunc returns a gin handler for the admin endpoints
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "deleteUser":
			controller.DeleteUser()
		case "getReports":
			controller.GetReports()
		case "deleteReport":
			controller.DeleteReport()
		case "getDonations":
			controller.GetDonations()
		case "deleteDonation":
			controller.DeleteDonation()
		case "getStats":
			controller.GetStats()
		default:
			invalidMethod(ctx)
		}
	}
}

// 1. GetUsers lists every user
func (c *AdminController) GetUsers() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, err := userService.GetAllUsers()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, users)
}

// 2. DeleteUser removes a user with their reports and those reports' donations
func (c *AdminController) DeleteUser() {
	id, ok := idParam(c.Ctx, "id", code.ErrUserNotFound)
	if !ok {
		return
	}

	ctx := c.Ctx.Request.Context()
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	removed, err := userService.DeleteUser(ctx, id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	reportService.DiscardImages(ctx, removed)

	Logger.FromContext(ctx).Infof("user %d deleted with %d reports", id, len(removed))
	response.Message(c.Ctx, "User deleted successfully")
}

// 3. GetReports lists every report
func (c *AdminController) GetReports() {
	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	reports, err := reportService.ListReports()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, reports)
}

// 4. DeleteReport removes any report
func (c *AdminController) DeleteReport() {
	id, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	if err := reportService.AdminDeleteReport(c.Ctx.Request.Context(), id); err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "Report deleted successfully")
}

// 5. GetDonations lists every donation with a summary of its report
func (c *AdminController) GetDonations() {
	donationService := c.Container.GetService("donation").(services.InterfaceDonationService)
	donations, err := donationService.ListAll()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, donations)
}

// 6. DeleteDonation removes a donation
func (c *AdminController) DeleteDonation() {
	id, ok := idParam(c.Ctx, "id", code.ErrDonationNotFound)
	if !ok {
		return
	}

	donationService := c.Container.GetService("donation").(services.InterfaceDonationService)
	if err := donationService.DeleteDonation(id); err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "Donation deleted successfully")
}

// 7. GetStats returns the dashboard counters
func (c *AdminController) GetStats() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	stats, err := adminService.GetStats()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}
