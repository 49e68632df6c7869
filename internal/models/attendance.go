package models

import "time"

// AttendanceStatus represents the status recorded for a check-in.
type AttendanceStatus string

const (
	AttendanceStatusHadir     AttendanceStatus = "hadir"
	AttendanceStatusTerlambat AttendanceStatus = "terlambat"
	AttendanceStatusIzin      AttendanceStatus = "izin"
	AttendanceStatusSakit     AttendanceStatus = "sakit"
	AttendanceStatusAlpha     AttendanceStatus = "alpha"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusHadir, AttendanceStatusTerlambat, AttendanceStatusIzin, AttendanceStatusSakit, AttendanceStatusAlpha:
		return true
	default:
		return false
	}
}

// AttendanceMethod records how an attendance entry was produced.
type AttendanceMethod string

const (
	AttendanceMethodManual        AttendanceMethod = "manual"
	AttendanceMethodFace          AttendanceMethod = "face_recognition"
	AttendanceMethodAutoGenerated AttendanceMethod = "auto_generated"
)

// AttendanceRecord is a single presensi row. Records are append-only; the
// reconciliation job never updates or deletes them.
type AttendanceRecord struct {
	ID        string           `db:"id_presensi" json:"id_presensi"`
	NISN      string           `db:"nisn" json:"nisn"`
	Timestamp time.Time        `db:"tanggal_waktu" json:"tanggal_waktu"`
	// Day is the local calendar day of Timestamp. It backs the
	// presensi_nisn_day_key unique constraint: at most one record per
	// student per day.
	Day       time.Time        `db:"tanggal" json:"tanggal"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Method    AttendanceMethod `db:"metode" json:"metode"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AlphaRecapRow joins an auto-generated record with student metadata for exports.
type AlphaRecapRow struct {
	ID          string    `db:"id_presensi" json:"id_presensi"`
	NISN        string    `db:"nisn" json:"nisn"`
	StudentName string    `db:"nama_siswa" json:"student_name"`
	Timestamp   time.Time `db:"tanggal_waktu" json:"tanggal_waktu"`
}
