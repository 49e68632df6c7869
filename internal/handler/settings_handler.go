package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/internal/models"
	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
	"github.com/smart-presensee/auto-alpha-api/pkg/response"
)

type settingsService interface {
	Load(ctx context.Context) models.AttendanceSettings
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*models.AttendanceSettings, error)
}

// SettingsHandler exposes the attendance policy admin endpoints.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get godoc
// @Summary Fetch the attendance policy
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auto-alpha/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings := h.service.Load(c.Request.Context())
	response.JSON(c, http.StatusOK, settings)
}

// Update godoc
// @Summary Update the attendance policy
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSettingsRequest true "Policy fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auto-alpha/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	settings, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}
