package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/resonara/internal/repository"
	"github.com/RMahshie/resonara/pkg/models"
)

func newMockRepo(t *testing.T) (repository.AnalysisRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresAnalysisRepository(db), mock
}

var analysisRowColumns = []string{
	"id", "session_id", "label", "status", "progress", "data_s3_key", "value_column",
	"modal_frequencies", "error_message", "created_at", "updated_at", "completed_at",
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	key := "torque/run.csv"

	analysis := &models.Analysis{
		SessionID:        "session-123456",
		Label:            "pulley A",
		Status:           models.StatusPending,
		DataS3Key:        &key,
		ValueColumn:      "Torque (Nm)",
		ModalFrequencies: []float64{45.2, 78.9},
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO analyses")).
		WithArgs(sqlmock.AnyArg(), "session-123456", "pulley A", "pending", 0, key, "Torque (Nm)", "[45.2,78.9]").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), analysis))

	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, now, analysis.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses WHERE id = $1")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(analysisRowColumns).
			AddRow(id.String(), "session-123456", "", "failed", 10, "torque/run.csv", "Torque (Nm)",
				[]byte("[45.2]"), "bad data", now, now, nil))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id.String(), got.ID)
	require.NotNil(t, got.DataS3Key)
	assert.Equal(t, "torque/run.csv", *got.DataS3Key)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "bad data", *got.ErrorMsg)
	assert.Equal(t, []float64{45.2}, got.ModalFrequencies)
	assert.Nil(t, got.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses WHERE id = $1")).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateStatusAndError(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE analyses")).
		WithArgs("processing", 50, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'failed'")).
		WithArgs("boom", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, "processing", 50))
	require.NoError(t, repo.UpdateError(context.Background(), id, "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAndGetResults(t *testing.T) {
	repo, mock := newMockRepo(t)
	analysisID := uuid.New()
	now := time.Now()

	results := &models.AnalysisResults{
		ID:          uuid.New().String(),
		AnalysisID:  analysisID.String(),
		SampleRate:  1000,
		SampleCount: 4,
		Dominant:    models.DominantFrequency{Frequency: 250, Amplitude: 0.5},
		Spectrum: []models.FrequencyPoint{
			{Frequency: 0, Amplitude: 0},
			{Frequency: 250, Amplitude: 0.5},
		},
		Assessment: &models.ResonanceAssessment{ForcingFrequency: 250, ClosestNatural: 220.1, Risk: models.RiskLow},
		CreatedAt:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analysis_results")).
		WithArgs(results.ID, results.AnalysisID, 1000.0, 4, 250.0, 0.5,
			`[{"frequency":0,"amplitude":0},{"frequency":250,"amplitude":0.5}]`,
			sqlmock.AnyArg(), nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.StoreResults(context.Background(), results))

	mock.ExpectQuery(regexp.QuoteMeta("FROM analysis_results")).
		WithArgs(analysisID.String()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "analysis_id", "sample_rate", "sample_count", "dominant_frequency", "dominant_amplitude",
			"spectrum", "assessment", "report_s3_key", "created_at",
		}).AddRow(results.ID, results.AnalysisID, 1000.0, 4, 250.0, 0.5,
			[]byte(`[{"frequency":0,"amplitude":0},{"frequency":250,"amplitude":0.5}]`),
			`{"forcing_frequency":250,"closest_natural_frequency":220.1,"risk":"LOW"}`,
			"reports/x.txt", now))

	got, err := repo.GetResults(context.Background(), analysisID)
	require.NoError(t, err)

	assert.Equal(t, results.Spectrum, got.Spectrum)
	assert.Equal(t, results.Dominant, got.Dominant)
	require.NotNil(t, got.Assessment)
	assert.Equal(t, 220.1, got.Assessment.ClosestNatural)
	assert.Equal(t, models.RiskLow, got.Assessment.Risk)
	require.NotNil(t, got.ReportS3Key)
	assert.Equal(t, "reports/x.txt", *got.ReportS3Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreResults_ReprocessReplacesRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	analysisID := uuid.New().String()

	for _, freq := range []float64{25, 40} {
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (analysis_id) DO UPDATE SET")).
			WithArgs(sqlmock.AnyArg(), analysisID, 1000.0, 1000, freq, 1.0,
				sqlmock.AnyArg(), nil, nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	for _, freq := range []float64{25, 40} {
		require.NoError(t, repo.StoreResults(context.Background(), &models.AnalysisResults{
			ID:          uuid.New().String(),
			AnalysisID:  analysisID,
			SampleRate:  1000,
			SampleCount: 1000,
			Dominant:    models.DominantFrequency{Frequency: freq, Amplitude: 1},
			CreatedAt:   time.Now(),
		}))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
