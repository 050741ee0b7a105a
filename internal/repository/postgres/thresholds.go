package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/pkg/models"
)

// PostgresThresholdRepository implements ThresholdRepository for PostgreSQL.
// Each hearing test is one row of hearing_tests with a nullable column per
// ear and frequency.
type PostgresThresholdRepository struct {
	db    *sql.DB
	query string
}

// NewPostgresThresholdRepository creates a new PostgreSQL threshold repository
func NewPostgresThresholdRepository(db *sql.DB) repository.ThresholdRepository {
	return &PostgresThresholdRepository{db: db, query: thresholdQuery()}
}

// thresholdColumns lists the level columns in ear-major canonical order
func thresholdColumns() []string {
	cols := make([]string, 0, len(models.Ears)*models.FrequencyCount)
	for _, ear := range models.Ears {
		for _, f := range models.CanonicalFrequencies {
			cols = append(cols, models.ColumnName(ear, f))
		}
	}
	return cols
}

func thresholdQuery() string {
	return fmt.Sprintf(`
		SELECT id, patient_ref, tested_at, %s
		FROM hearing_tests
		WHERE id = $1`, strings.Join(thresholdColumns(), ", "))
}

// GetThresholds retrieves the thresholds of a hearing test
func (r *PostgresThresholdRepository) GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error) {
	var test models.HearingTest
	var patientRef sql.NullString
	levels := make([]sql.NullFloat64, len(models.Ears)*models.FrequencyCount)

	dest := []any{&test.ID, &patientRef, &test.TestedAt}
	for i := range levels {
		dest = append(dest, &levels[i])
	}

	err := r.db.QueryRowContext(ctx, r.query, testID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hearing test: %w", err)
	}

	if patientRef.Valid {
		test.PatientRef = patientRef.String
	}

	rec := &models.ThresholdRecord{TestID: test.ID, Test: &test}
	i := 0
	for _, ear := range models.Ears {
		for _, f := range models.CanonicalFrequencies {
			var level *float64
			if levels[i].Valid {
				v := levels[i].Float64
				level = &v
			}
			rec.Readings = append(rec.Readings, models.Reading{Ear: ear, Frequency: f, HearingLevel: level})
			i++
		}
	}

	return rec, nil
}
