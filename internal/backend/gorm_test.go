package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockEntities(t *testing.T) (Entities, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	entities, err := NewGormEntities(db)
	require.NoError(t, err)
	return entities, mock
}

func TestGormListTranslatesWireNames(t *testing.T) {
	entities, mock := newMockEntities(t)

	rows := sqlmock.NewRows([]string{"id", "job_id", "applicant_id", "status", "expected_salary", "applied_at"}).
		AddRow("a2", "j2", "u1", "pending", 80000.0, time.Now()).
		AddRow("a1", "j1", "u1", "reviewed", 75000.0, time.Now().Add(-time.Hour))
	mock.ExpectQuery(`SELECT \* FROM "job_applications" WHERE "applicant_id" = \$1 ORDER BY "applied_at" DESC`).
		WithArgs("u1").
		WillReturnRows(rows)

	apps, err := entities.Applications.List(context.Background(), Query{
		Filter: map[string]any{"applicantId": "u1"},
		Sort:   map[string]int{"appliedAt": Descending},
	})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "a2", apps[0].ID)
	assert.Equal(t, "j1", apps[1].JobID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListScansArrayColumns(t *testing.T) {
	entities, mock := newMockEntities(t)

	rows := sqlmock.NewRows([]string{"id", "title", "skills", "salary_min"}).
		AddRow("j1", "Backend Engineer", "{go,postgres}", 90000)
	mock.ExpectQuery(`SELECT \* FROM "jobs" ORDER BY "created_at" DESC`).WillReturnRows(rows)

	jobs, err := entities.Jobs.List(context.Background(), Query{Sort: map[string]int{"createdAt": Descending}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, []string{"go", "postgres"}, []string(jobs[0].Skills))
	assert.Equal(t, 90000, jobs[0].SalaryMin)
}

func TestGormListUnknownField(t *testing.T) {
	entities, _ := newMockEntities(t)

	_, err := entities.Companies.List(context.Background(), Query{Filter: map[string]any{"ceo": "x"}})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 400, reqErr.StatusCode)
}

func TestGormGetNotFound(t *testing.T) {
	entities, mock := newMockEntities(t)

	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := entities.Jobs.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGormUpdateMapsWireNamesToColumns(t *testing.T) {
	entities, mock := newMockEntities(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "job_applications" SET "feedback"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs("Strong profile", "reviewed", now, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "job_applications" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "applicant_id", "status", "feedback", "updated_at"}).
			AddRow("a1", "j1", "u1", "reviewed", "Strong profile", now))

	app, err := entities.Applications.Update(context.Background(), "a1", Patch{
		"status":    "reviewed",
		"feedback":  "Strong profile",
		"updatedAt": now,
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewed", app.Status)
	require.NotNil(t, app.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateApplicationsCounter(t *testing.T) {
	entities, mock := newMockEntities(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jobs" SET "applications_count"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "applications_count"}).AddRow("j1", "Go Dev", 5))

	job, err := entities.Jobs.Update(context.Background(), "j1", Patch{"applicationsCount": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, job.ApplicationsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateMissingRow(t *testing.T) {
	entities, mock := newMockEntities(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jobs" SET "status"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := entities.Jobs.Update(context.Background(), "nope", Patch{"status": "closed"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateUnknownField(t *testing.T) {
	entities, mock := newMockEntities(t)

	_, err := entities.Jobs.Update(context.Background(), "j1", Patch{"salary": 1})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 400, reqErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateAssignsUUID(t *testing.T) {
	entities, mock := newMockEntities(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "companies"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := entities.Companies.Create(context.Background(), models.Company{Name: "Acme"})
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
