package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-presensee/auto-alpha-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestAttendanceRepositoryLastIDWithPrefix(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id_presensi"}).AddRow("idpr040007")
	mock.ExpectQuery("SELECT id_presensi FROM presensi").
		WithArgs("idpr04", "idpr04z").
		WillReturnRows(rows)

	id, err := repo.LastIDWithPrefix(context.Background(), "idpr04")
	require.NoError(t, err)
	assert.Equal(t, "idpr040007", id)
}

func TestAttendanceRepositoryLastIDWithPrefixRanksByLength(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	// Text order alone would rank idpr049999 above idpr0410000. The scan
	// must order by length first so a widened suffix stays the high-water
	// mark across runs.
	rows := sqlmock.NewRows([]string{"id_presensi"}).AddRow("idpr0410000")
	mock.ExpectQuery(`SELECT id_presensi FROM presensi\s+WHERE id_presensi >= \$1 AND id_presensi < \$2\s+ORDER BY LENGTH\(id_presensi\) DESC, id_presensi DESC\s+LIMIT 1`).
		WithArgs("idpr04", "idpr04z").
		WillReturnRows(rows)

	id, err := repo.LastIDWithPrefix(context.Background(), "idpr04")
	require.NoError(t, err)
	assert.Equal(t, "idpr0410000", id)
}

func TestAttendanceRepositoryLastIDWithPrefixEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT id_presensi FROM presensi").
		WithArgs("idpr04", "idpr04z").
		WillReturnRows(sqlmock.NewRows([]string{"id_presensi"}))

	id, err := repo.LastIDWithPrefix(context.Background(), "idpr04")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestAttendanceRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{ID: "idpr040001", NISN: "1001", Timestamp: day.Add(14 * time.Hour), Day: day, Status: models.AttendanceStatusAlpha, Method: models.AttendanceMethodAutoGenerated},
		{ID: "idpr040002", NISN: "1002", Timestamp: day.Add(14 * time.Hour), Day: day, Status: models.AttendanceStatusAlpha, Method: models.AttendanceMethodAutoGenerated},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO presensi").
		WithArgs("idpr040001", "1001", sqlmock.AnyArg(), sqlmock.AnyArg(), "alpha", "auto_generated", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id_presensi"}).AddRow("idpr040001"))
	mock.ExpectQuery("INSERT INTO presensi").
		WithArgs("idpr040002", "1002", sqlmock.AnyArg(), sqlmock.AnyArg(), "alpha", "auto_generated", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id_presensi"}).AddRow("idpr040002"))
	mock.ExpectCommit()

	require.NoError(t, repo.InsertBatch(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsertBatchConflictRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{ID: "idpr040001", NISN: "1001", Timestamp: day, Day: day, Status: models.AttendanceStatusAlpha, Method: models.AttendanceMethodAutoGenerated},
		{ID: "idpr040002", NISN: "1002", Timestamp: day, Day: day, Status: models.AttendanceStatusAlpha, Method: models.AttendanceMethodAutoGenerated},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO presensi").
		WithArgs("idpr040001", "1001", sqlmock.AnyArg(), sqlmock.AnyArg(), "alpha", "auto_generated", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id_presensi"}).AddRow("idpr040001"))
	// A duplicate (nisn, tanggal) hits ON CONFLICT DO NOTHING: no row returned.
	mock.ExpectQuery("INSERT INTO presensi").
		WithArgs("idpr040002", "1002", sqlmock.AnyArg(), sqlmock.AnyArg(), "alpha", "auto_generated", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id_presensi"}))
	mock.ExpectRollback()

	err := repo.InsertBatch(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate for nisn 1002")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsertBatchEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.InsertBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCountAutoAlpha(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM presensi`).
		WithArgs(from, to, "alpha", "auto_generated").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountAutoAlpha(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestAttendanceRepositoryListByDateRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	rows := sqlmock.NewRows([]string{"id_presensi", "nisn", "tanggal_waktu", "tanggal", "status", "metode", "created_at"}).
		AddRow("abc123", "1001", from.Add(7*time.Hour), from, "hadir", "manual", from.Add(7*time.Hour))
	mock.ExpectQuery("SELECT id_presensi, nisn, tanggal_waktu, tanggal, status, metode, created_at").
		WithArgs(from, to).
		WillReturnRows(rows)

	records, err := repo.ListByDateRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0].NISN)
	assert.Equal(t, models.AttendanceStatusHadir, records[0].Status)
}
