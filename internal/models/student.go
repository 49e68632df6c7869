package models

import "time"

// Student represents a learner registered in the institution. The NISN is
// assigned externally and doubles as the natural key for attendance records.
type Student struct {
	NISN      string    `db:"nisn" json:"nisn"`
	Name      string    `db:"nama_siswa" json:"nama_siswa"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
