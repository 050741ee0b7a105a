package repository

import (
	"context"

	"github.com/RMahshie/audiogram/pkg/models"
)

// ThresholdRepository defines the interface for reading hearing-test thresholds.
// GetThresholds returns a nil record and nil error when the test has no record.
type ThresholdRepository interface {
	GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error)
}

// ThresholdRepositoryFunc adapts a function to ThresholdRepository
type ThresholdRepositoryFunc func(ctx context.Context, testID string) (*models.ThresholdRecord, error)

func (f ThresholdRepositoryFunc) GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error) {
	return f(ctx, testID)
}
