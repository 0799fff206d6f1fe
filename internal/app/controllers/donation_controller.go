package controllers

import (
	"strconv"
	"strings"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceDonationController defines the donation endpoints
type InterfaceDonationController interface {
	GetDonations()
	CreateDonation()
}

// DonationController handles the donations of a report
type DonationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDonationController creates a new donation controller
func NewDonationController(ctx *gin.Context, container *container.ServiceContainer) *DonationController {
	return &DonationController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateDonationRequest is the JSON body of POST /reports/:id/donations.
// full_name is accepted as an alias of name.
type CreateDonationRequest struct {
	Name         string   `json:"name"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Type         string   `json:"type"`
	Amount       string   `json:"amount"`
	AmountNumber *float64 `json:"amount_number"`
}

// HandleDonationFunc returns a gin handler for the donation endpoints
func HandleDonationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDonationController(ctx, container)

		switch method {
		case "getDonations":
			controller.GetDonations()
		case "createDonation":
			controller.CreateDonation()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DonationController) donations() services.InterfaceDonationService {
	return c.Container.GetService("donation").(services.InterfaceDonationService)
}

// 1. GetDonations lists the donations of a report, newest first
func (c *DonationController) GetDonations() {
	reportID, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	donations, err := c.donations().ListForReport(reportID)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, donations)
}

// 2. CreateDonation pledges support to a report. No session is required.
func (c *DonationController) CreateDonation() {
	reportID, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	input, ok := c.bindDonation()
	if !ok {
		return
	}

	donation, err := c.donations().CreateDonation(reportID, input)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, donation)
}

func (c *DonationController) bindDonation() (services.DonationInput, bool) {
	var req CreateDonationRequest

	if strings.HasPrefix(c.Ctx.ContentType(), gin.MIMEJSON) {
		if err := c.Ctx.ShouldBindJSON(&req); err != nil {
			response.Fail(c.Ctx, code.ErrBind)
			return services.DonationInput{}, false
		}
	} else {
		req.Name = c.Ctx.PostForm("name")
		req.FullName = c.Ctx.PostForm("full_name")
		req.Email = c.Ctx.PostForm("email")
		req.Phone = c.Ctx.PostForm("phone")
		req.Type = c.Ctx.PostForm("type")
		req.Amount = c.Ctx.PostForm("amount")
		if raw := strings.TrimSpace(c.Ctx.PostForm("amount_number")); raw != "" {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				response.ParamError(c.Ctx, "amount_number must be a number")
				return services.DonationInput{}, false
			}
			req.AmountNumber = &n
		}
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.FullName
	}
	return services.DonationInput{
		FullName:     name,
		Email:        req.Email,
		Phone:        req.Phone,
		Type:         req.Type,
		Amount:       req.Amount,
		AmountNumber: req.AmountNumber,
	}, true
}
