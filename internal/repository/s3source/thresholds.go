package s3source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/internal/storage"
	"github.com/RMahshie/audiogram/pkg/models"
)

// DefaultPrefix is the key prefix threshold documents are stored under
const DefaultPrefix = "records/"

// S3ThresholdRepository reads threshold documents stored as JSON objects at
// <prefix><testID>.json. A document is either a ThresholdRecord with a
// "readings" list or a flat object of fields such as "L_250_Hz".
type S3ThresholdRepository struct {
	s3     storage.S3Service
	prefix string
}

// NewS3ThresholdRepository creates a repository over an S3 bucket
func NewS3ThresholdRepository(s3Service storage.S3Service, prefix string) repository.ThresholdRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &S3ThresholdRepository{s3: s3Service, prefix: prefix}
}

// Key returns the object key of a test's document
func (r *S3ThresholdRepository) Key(testID string) string {
	return r.prefix + testID + ".json"
}

// GetThresholds downloads and decodes a test's document
func (r *S3ThresholdRepository) GetThresholds(ctx context.Context, testID string) (*models.ThresholdRecord, error) {
	data, err := r.s3.DownloadFile(ctx, r.Key(testID))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := DecodeRecord(testID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Key(testID), err)
	}
	return rec, nil
}

// DecodeRecord parses a threshold document in either supported layout.
// A JSON null document decodes to a nil record.
func DecodeRecord(testID string, data []byte) (*models.ThresholdRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	if _, ok := doc["readings"]; ok {
		var rec models.ThresholdRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
		if rec.TestID == "" {
			rec.TestID = testID
		}
		return &rec, nil
	}

	fields := make(map[string]*float64, len(doc))
	for k, raw := range doc {
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			// non-numeric fields (names, notes) are not thresholds
			continue
		}
		fields[k] = v
	}
	return models.RecordFromFields(testID, fields), nil
}
