package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/internal/models"
	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
	"github.com/smart-presensee/auto-alpha-api/pkg/response"
)

type settingsServiceMock struct {
	loaded    models.AttendanceSettings
	updated   *models.AttendanceSettings
	updateErr error
}

func (m *settingsServiceMock) Load(ctx context.Context) models.AttendanceSettings {
	return m.loaded
}

func (m *settingsServiceMock) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*models.AttendanceSettings, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updated, nil
}

func TestSettingsHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingsHandler(&settingsServiceMock{
		loaded: models.AttendanceSettings{ID: models.SettingsDocumentID, Active: true, WindowStart: "06:30", WindowEnd: "13:55"},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auto-alpha/settings", nil)

	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestSettingsHandlerUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingsHandler(&settingsServiceMock{
		updated: &models.AttendanceSettings{ID: models.SettingsDocumentID, Active: false, WindowStart: "07:00", WindowEnd: "14:00"},
	})

	active := false
	body, _ := json.Marshal(dto.UpdateSettingsRequest{Active: &active, WindowStart: "07:00", WindowEnd: "14:00"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/auto-alpha/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettingsHandlerUpdateBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingsHandler(&settingsServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/auto-alpha/settings", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandlerUpdateValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingsHandler(&settingsServiceMock{
		updateErr: appErrors.Clone(appErrors.ErrValidation, "invalid settings payload"),
	})

	active := true
	body, _ := json.Marshal(dto.UpdateSettingsRequest{Active: &active, WindowStart: "late", WindowEnd: "13:55"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/auto-alpha/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
