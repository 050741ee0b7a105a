package audiogram

import (
	"github.com/RMahshie/audiogram/pkg/models"
)

// Normalize maps a raw record onto the canonical frequency slots of both
// ears. A nil record yields a NoDataError. A frequency missing from the
// record becomes a no-data slot; nothing else is affected by it.
func Normalize(testID string, rec *models.ThresholdRecord) (models.Audiogram, error) {
	if rec == nil {
		return models.Audiogram{}, &NoDataError{TestID: testID}
	}
	if testID == "" {
		testID = rec.TestID
	}

	a := models.Audiogram{
		TestID:      testID,
		Frequencies: models.CanonicalFrequencies,
		Left:        models.EarSeries{Ear: models.EarLeft},
		Right:       models.EarSeries{Ear: models.EarRight},
	}
	for i, f := range models.CanonicalFrequencies {
		a.Left.Levels[i] = levelAt(rec, models.EarLeft, f)
		a.Right.Levels[i] = levelAt(rec, models.EarRight, f)
	}
	return a, nil
}

func levelAt(rec *models.ThresholdRecord, ear models.Ear, f models.Frequency) models.Level {
	v, ok := rec.Lookup(ear, f)
	if !ok {
		return models.NoData
	}
	return models.LevelOf(v)
}
