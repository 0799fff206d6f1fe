package controllers

import (
	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	"disasterconnect-http-service/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
)

// InterfaceReportController defines the report endpoints
type InterfaceReportController interface {
	GetReports()
	CreateReport()
	GetMyReports()
	GetReport()
	UpdateReport()
	DeleteReport()
}

// ReportController handles disaster reports
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController creates a new report controller
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateReportRequest is the JSON body of PATCH /reports/:id. Absent or
// null fields are left unchanged.
type UpdateReportRequest struct {
	Type         *string `json:"type"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	Severity     *string `json:"severity"`
	Image        *string `json:"image"`
	ReporterName *string `json:"reporter_name"`
	Date         *string `json:"date"`
}

// HandleReportFunc returns a gin handler for the report endpoints
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "getReports":
			controller.GetReports()
		case "createReport":
			controller.CreateReport()
		case "getMyReports":
			controller.GetMyReports()
		case "getReport":
			controller.GetReport()
		case "updateReport":
			controller.UpdateReport()
		case "deleteReport":
			controller.DeleteReport()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *ReportController) reports() services.InterfaceReportService {
	return c.Container.GetService("report").(services.InterfaceReportService)
}

// formImage returns the uploaded image of a multipart request, or nil
func (c *ReportController) formImage() *storage.File {
	fh, err := c.Ctx.FormFile("image")
	if err != nil || fh.Filename == "" {
		return nil
	}
	return storage.FromFileHeader(fh)
}

// 1. GetReports lists every report, newest first
func (c *ReportController) GetReports() {
	reports, err := c.reports().ListReports()
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, reports)
}

// 2. CreateReport classifies and saves a report submitted as a form.
// Reports without a session are stored as anonymous.
func (c *ReportController) CreateReport() {
	input := services.CreateReportInput{
		Type:        c.Ctx.PostForm("type"),
		Location:    c.Ctx.PostForm("location"),
		Description: c.Ctx.PostForm("description"),
		Image:       c.formImage(),
		BaseURL:     requestBaseURL(c.Ctx),
	}
	if userID, ok := middleware.GetSession(c.Ctx).UserID(); ok {
		input.UserID = &userID
	}

	report, err := c.reports().CreateReport(c.Ctx.Request.Context(), input)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, report)
}

// 3. GetMyReports lists the reports of the session user
func (c *ReportController) GetMyReports() {
	reports, err := c.reports().ListUserReports(c.Ctx.GetUint(middleware.UserIDKey))
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, reports)
}

// 4. GetReport returns one report with its donations
func (c *ReportController) GetReport() {
	id, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	report, err := c.reports().GetReport(id)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 5. UpdateReport applies a partial update from JSON or multipart form data
func (c *ReportController) UpdateReport() {
	id, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	patch, ok := c.bindPatch()
	if !ok {
		return
	}

	report, err := c.reports().UpdateReport(c.Ctx.Request.Context(), id, c.Ctx.GetUint(middleware.UserIDKey), patch)
	if err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

func (c *ReportController) bindPatch() (services.ReportPatch, bool) {
	patch := services.ReportPatch{BaseURL: requestBaseURL(c.Ctx)}

	contentType := c.Ctx.ContentType()
	if contentType == gin.MIMEMultipartPOSTForm || contentType == gin.MIMEPOSTForm {
		field := func(name string) *string {
			if v, ok := c.Ctx.GetPostForm(name); ok {
				return &v
			}
			return nil
		}
		patch.Type = field("type")
		patch.Location = field("location")
		patch.Description = field("description")
		patch.Severity = field("severity")
		patch.ReporterName = field("reporter_name")
		patch.Date = field("date")
		patch.NewImage = c.formImage()
		return patch, true
	}

	var req UpdateReportRequest
	if c.Ctx.Request.ContentLength != 0 {
		if err := c.Ctx.ShouldBindJSON(&req); err != nil {
			response.Fail(c.Ctx, code.ErrBind)
			return patch, false
		}
	}
	patch.Type = req.Type
	patch.Location = req.Location
	patch.Description = req.Description
	patch.Severity = req.Severity
	patch.Image = req.Image
	patch.ReporterName = req.ReporterName
	patch.Date = req.Date
	return patch, true
}

// 6. DeleteReport removes a report owned by the session user
func (c *ReportController) DeleteReport() {
	id, ok := idParam(c.Ctx, "id", code.ErrReportNotFound)
	if !ok {
		return
	}

	if err := c.reports().DeleteReport(c.Ctx.Request.Context(), id, c.Ctx.GetUint(middleware.UserIDKey)); err != nil {
		failWithError(c.Ctx, err)
		return
	}
	response.Message(c.Ctx, "Report deleted")
}
