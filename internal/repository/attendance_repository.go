package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smart-presensee/auto-alpha-api/internal/models"
)

// AttendanceRepository handles persistence for presensi records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByDateRange returns all records whose timestamp falls in [from, to).
func (r *AttendanceRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT id_presensi, nisn, tanggal_waktu, tanggal, status, metode, created_at
FROM presensi
WHERE tanggal_waktu >= $1 AND tanggal_waktu < $2
ORDER BY tanggal_waktu ASC`
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list presensi by date range: %w", err)
	}
	return rows, nil
}

// LastIDWithPrefix returns the id_presensi with the greatest numeric suffix in
// the range [prefix, prefix+"z"). Ordering by length first keeps a widened
// five-digit suffix ranked above any four-digit one; plain text order would
// rank 9999 above 10000 and make the next run re-issue a persisted ID. Returns
// an empty string without error when no record matches the prefix.
func (r *AttendanceRepository) LastIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	const query = `SELECT id_presensi FROM presensi
WHERE id_presensi >= $1 AND id_presensi < $2
ORDER BY LENGTH(id_presensi) DESC, id_presensi DESC
LIMIT 1`
	var id string
	if err := r.db.GetContext(ctx, &id, query, prefix, prefix+"z"); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("last presensi id for prefix %s: %w", prefix, err)
	}
	return id, nil
}

// InsertBatch writes all records in a single transaction, all-or-nothing. A
// duplicate (nisn, tanggal) pair aborts the whole batch: either every record is
// durably written or none are.
func (r *AttendanceRepository) InsertBatch(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin presensi batch: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	const query = `INSERT INTO presensi (id_presensi, nisn, tanggal_waktu, tanggal, status, metode, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING RETURNING id_presensi`
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		var insertedID string
		if err := tx.QueryRowxContext(ctx, query, rec.ID, rec.NISN, rec.Timestamp, rec.Day, rec.Status, rec.Method, rec.CreatedAt).Scan(&insertedID); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("insert presensi batch: duplicate for nisn %s on %s", rec.NISN, rec.Day.Format("2006-01-02"))
			}
			return fmt.Errorf("insert presensi batch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit presensi batch: %w", err)
	}
	commit = true
	return nil
}

// CountAutoAlpha counts auto-generated alpha records in [from, to).
func (r *AttendanceRepository) CountAutoAlpha(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM presensi
WHERE tanggal_waktu >= $1 AND tanggal_waktu < $2 AND status = $3 AND metode = $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, from, to, models.AttendanceStatusAlpha, models.AttendanceMethodAutoGenerated); err != nil {
		return 0, fmt.Errorf("count auto alpha: %w", err)
	}
	return count, nil
}

// AlphaRecap returns today's auto-generated alpha rows joined with student names.
func (r *AttendanceRepository) AlphaRecap(ctx context.Context, from, to time.Time) ([]models.AlphaRecapRow, error) {
	const query = `SELECT p.id_presensi, p.nisn, s.nama_siswa, p.tanggal_waktu
FROM presensi p
JOIN students s ON s.nisn = p.nisn
WHERE p.tanggal_waktu >= $1 AND p.tanggal_waktu < $2 AND p.status = $3 AND p.metode = $4
ORDER BY p.id_presensi ASC`
	var rows []models.AlphaRecapRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to, models.AttendanceStatusAlpha, models.AttendanceMethodAutoGenerated); err != nil {
		return nil, fmt.Errorf("alpha recap: %w", err)
	}
	return rows, nil
}
