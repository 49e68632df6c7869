package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smart-presensee/auto-alpha-api/internal/models"
)

// StudentRepository reads the student roster. The roster is owned by an
// external registration process; this service never mutates it.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListActive returns enrolled students ordered by NISN.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT nisn, nama_siswa, active, created_at, updated_at
FROM students
WHERE active = TRUE
ORDER BY nisn ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list active students: %w", err)
	}
	return students, nil
}
