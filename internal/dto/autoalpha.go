package dto

// RunResponse summarises one reconciliation run. It is returned to manual
// callers and logged by the scheduled path; it is never persisted.
type RunResponse struct {
	Success       bool     `json:"success"`
	Skipped       bool     `json:"skipped,omitempty"`
	AlphaCount    int      `json:"alphaCount"`
	AlphaStudents []string `json:"alphaStudents"`
	Degraded      bool     `json:"degraded,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// StatusResponse answers "did today's run already happen and with what count".
type StatusResponse struct {
	Success       bool   `json:"success"`
	ExecutedToday bool   `json:"executedToday"`
	AlphaCount    int    `json:"alphaCount"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// UpdateSettingsRequest carries the attendance policy fields.
type UpdateSettingsRequest struct {
	Active      *bool  `json:"aktif" validate:"required"`
	WindowStart string `json:"jam_mulai" validate:"required,datetime=15:04"`
	WindowEnd   string `json:"jam_selesai" validate:"required,datetime=15:04"`
}

// RecapExportQuery selects the recap export format and day.
type RecapExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
	Date   string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}
