package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/resonara/internal/repository"
	"github.com/RMahshie/resonara/pkg/models"
)

// PostgresAnalysisRepository implements AnalysisRepository for PostgreSQL
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgreSQL analysis repository
func NewPostgresAnalysisRepository(db *sql.DB) repository.AnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

const analysisColumns = `id, session_id, label, status, progress, data_s3_key, value_column,
		modal_frequencies, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new analysis record
func (r *PostgresAnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}

	var modal any
	if len(analysis.ModalFrequencies) > 0 {
		data, err := json.Marshal(analysis.ModalFrequencies)
		if err != nil {
			return fmt.Errorf("failed to marshal modal frequencies: %w", err)
		}
		modal = string(data)
	}

	query := `
		INSERT INTO analyses (id, session_id, label, status, progress, data_s3_key, value_column, modal_frequencies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		analysis.ID,
		analysis.SessionID,
		analysis.Label,
		analysis.Status,
		analysis.Progress,
		analysis.DataS3Key,
		analysis.ValueColumn,
		modal).Scan(&analysis.CreatedAt, &analysis.UpdatedAt)
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, repository.ErrNotFound)
	}
	return analysis, err
}

// GetBySessionID retrieves analyses by session ID
func (r *PostgresAnalysisRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE session_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var analysis models.Analysis
	var dataKey, errorMsg, modal sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&analysis.ID,
		&analysis.SessionID,
		&analysis.Label,
		&analysis.Status,
		&analysis.Progress,
		&dataKey,
		&analysis.ValueColumn,
		&modal,
		&errorMsg,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if dataKey.Valid {
		analysis.DataS3Key = &dataKey.String
	}
	if errorMsg.Valid {
		analysis.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}
	if modal.Valid {
		if err := json.Unmarshal([]byte(modal.String), &analysis.ModalFrequencies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal modal frequencies: %w", err)
		}
	}

	return &analysis, nil
}

// UpdateStatus updates the status and progress of an analysis
func (r *PostgresAnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE analyses
		SET status = $1::text, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1::text = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks an analysis as failed with a reason
func (r *PostgresAnalysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE analyses
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults stores analysis results
func (r *PostgresAnalysisRepository) StoreResults(ctx context.Context, results *models.AnalysisResults) error {
	spectrum, err := json.Marshal(results.Spectrum)
	if err != nil {
		return fmt.Errorf("failed to marshal spectrum: %w", err)
	}

	var assessment any
	if results.Assessment != nil {
		data, err := json.Marshal(results.Assessment)
		if err != nil {
			return fmt.Errorf("failed to marshal assessment: %w", err)
		}
		assessment = string(data)
	}

	query := `
		INSERT INTO analysis_results (id, analysis_id, sample_rate, sample_count, dominant_frequency,
		    dominant_amplitude, spectrum, assessment, report_s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (analysis_id) DO UPDATE SET
		    id = EXCLUDED.id,
		    sample_rate = EXCLUDED.sample_rate,
		    sample_count = EXCLUDED.sample_count,
		    dominant_frequency = EXCLUDED.dominant_frequency,
		    dominant_amplitude = EXCLUDED.dominant_amplitude,
		    spectrum = EXCLUDED.spectrum,
		    assessment = EXCLUDED.assessment,
		    report_s3_key = EXCLUDED.report_s3_key,
		    created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.AnalysisID,
		results.SampleRate,
		results.SampleCount,
		results.Dominant.Frequency,
		results.Dominant.Amplitude,
		string(spectrum),
		assessment,
		results.ReportS3Key,
		results.CreatedAt)

	return err
}

// GetResults retrieves analysis results
func (r *PostgresAnalysisRepository) GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error) {
	query := `
		SELECT id, analysis_id, sample_rate, sample_count, dominant_frequency, dominant_amplitude,
		       spectrum, assessment, report_s3_key, created_at
		FROM analysis_results
		WHERE analysis_id = $1`

	var results models.AnalysisResults
	var spectrum []byte
	var assessment, reportKey sql.NullString

	err := r.db.QueryRowContext(ctx, query, analysisID).Scan(
		&results.ID,
		&results.AnalysisID,
		&results.SampleRate,
		&results.SampleCount,
		&results.Dominant.Frequency,
		&results.Dominant.Amplitude,
		&spectrum,
		&assessment,
		&reportKey,
		&results.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("results for analysis %s: %w", analysisID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(spectrum, &results.Spectrum); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spectrum: %w", err)
	}
	if assessment.Valid {
		results.Assessment = &models.ResonanceAssessment{}
		if err := json.Unmarshal([]byte(assessment.String), results.Assessment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
		}
	}
	if reportKey.Valid {
		results.ReportS3Key = &reportKey.String
	}

	return &results, nil
}
