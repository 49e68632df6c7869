package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/internal/models"
	"github.com/smart-presensee/auto-alpha-api/pkg/export"
	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
	"github.com/smart-presensee/auto-alpha-api/pkg/response"
)

type autoAlphaService interface {
	Run(ctx context.Context) dto.RunResponse
	Recap(ctx context.Context, day time.Time) ([]models.AlphaRecapRow, error)
}

type statusService interface {
	StatusForToday(ctx context.Context) dto.StatusResponse
}

// AutoAlphaHandler exposes the manual trigger, status, and recap endpoints.
type AutoAlphaHandler struct {
	autoAlpha autoAlphaService
	status    statusService
	validator *validator.Validate
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewAutoAlphaHandler constructs the handler.
func NewAutoAlphaHandler(autoAlpha autoAlphaService, status statusService, validate *validator.Validate) *AutoAlphaHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AutoAlphaHandler{
		autoAlpha: autoAlpha,
		status:    status,
		validator: validate,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Run godoc
// @Summary Trigger an auto-alpha reconciliation run
// @Tags AutoAlpha
// @Produce json
// @Success 200 {object} dto.RunResponse
// @Failure 500 {object} dto.RunResponse
// @Router /auto-alpha/run [post]
func (h *AutoAlphaHandler) Run(c *gin.Context) {
	result := h.autoAlpha.Run(c.Request.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

// Status godoc
// @Summary Report whether today's auto-alpha run already executed
// @Tags AutoAlpha
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /auto-alpha/status [get]
func (h *AutoAlphaHandler) Status(c *gin.Context) {
	// Always a structured 200 payload; transient read failures carry
	// success=false with an error description.
	c.JSON(http.StatusOK, h.status.StatusForToday(c.Request.Context()))
}

// Export godoc
// @Summary Download the day's auto-generated alpha recap
// @Tags AutoAlpha
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {file} file
// @Router /auto-alpha/export [get]
func (h *AutoAlphaHandler) Export(c *gin.Context) {
	var query dto.RecapExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	day := time.Now()
	if query.Date != "" {
		parsed, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	rows, err := h.autoAlpha.Recap(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.Dataset{
		Headers: []string{"ID Presensi", "NISN", "Nama Siswa", "Waktu"},
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		dataset.Rows[i] = []string{row.ID, row.NISN, row.StudentName, row.Timestamp.Format("2006-01-02 15:04")}
	}

	filename := fmt.Sprintf("alpha-recap-%s", day.Format("2006-01-02"))
	switch query.Format {
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Rekap Alpha Harian")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	}
}
