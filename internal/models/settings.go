package models

import "time"

// SettingsDocumentID is the well-known primary key of the single settings row.
const SettingsDocumentID = "default_settings"

// AttendanceSettings is the day's attendance policy. It is loaded once per
// reconciliation run and treated as immutable for the run's duration.
type AttendanceSettings struct {
	ID          string    `db:"id" json:"id"`
	Active      bool      `db:"aktif" json:"aktif"`
	WindowStart string    `db:"jam_mulai" json:"jam_mulai"`
	WindowEnd   string    `db:"jam_selesai" json:"jam_selesai"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultAttendanceSettings returns the hard-coded policy used when the
// settings row is missing or unreadable. Absence of configuration must not
// block attendance-day closure.
func DefaultAttendanceSettings() AttendanceSettings {
	return AttendanceSettings{
		ID:          SettingsDocumentID,
		Active:      true,
		WindowStart: "06:30",
		WindowEnd:   "13:55",
	}
}
