package models

import (
	"time"
)

// Reading is a single measured threshold. A nil HearingLevel means the
// frequency was not tested.
type Reading struct {
	Ear          Ear       `json:"ear" yaml:"ear" enum:"left,right" doc:"Tested ear"`
	Frequency    Frequency `json:"frequency" yaml:"frequency" doc:"Test frequency in Hz"`
	HearingLevel *float64  `json:"hearing_level" yaml:"hearing_level" doc:"Hearing threshold in dB HL"`
}

// ThresholdRecord is the raw threshold data of one hearing test as returned by a record source
type ThresholdRecord struct {
	TestID   string       `json:"test_id" yaml:"test_id"`
	Test     *HearingTest `json:"test,omitempty" yaml:"test,omitempty"`
	Readings []Reading    `json:"readings" yaml:"readings"`
}

// Lookup returns the threshold for ear at f. When a pair appears more than
// once the last non-nil reading wins.
func (r *ThresholdRecord) Lookup(ear Ear, f Frequency) (float64, bool) {
	var (
		value float64
		found bool
	)
	for _, rd := range r.Readings {
		if rd.Ear != ear || rd.Frequency != f || rd.HearingLevel == nil {
			continue
		}
		value = *rd.HearingLevel
		found = true
	}
	return value, found
}

// RecordFromFields builds a record from flat fields keyed like "L_250_Hz".
// Unknown fields are ignored.
func RecordFromFields(testID string, fields map[string]*float64) *ThresholdRecord {
	rec := &ThresholdRecord{TestID: testID}
	for _, ear := range Ears {
		for _, f := range CanonicalFrequencies {
			v, ok := fields[FieldName(ear, f)]
			if !ok {
				continue
			}
			rec.Readings = append(rec.Readings, Reading{Ear: ear, Frequency: f, HearingLevel: v})
		}
	}
	return rec
}

// HearingTest is the metadata of a hearing-test record
type HearingTest struct {
	ID         string    `json:"id" yaml:"id"`
	PatientRef string    `json:"patient_ref,omitempty" yaml:"patient_ref,omitempty"`
	TestedAt   time.Time `json:"tested_at" yaml:"tested_at"`
}

// EarSeries holds one ear's levels in canonical frequency order
type EarSeries struct {
	Ear    Ear                   `json:"ear" yaml:"ear"`
	Levels [FrequencyCount]Level `json:"levels" yaml:"levels"`
}

// Points returns the number of slots holding a measured level
func (s EarSeries) Points() int {
	n := 0
	for _, l := range s.Levels {
		if l.Valid {
			n++
		}
	}
	return n
}

// Segments returns the runs of consecutive measured slots. A line is drawn
// through each run and broken between runs.
func (s EarSeries) Segments() [][]int {
	var (
		segs [][]int
		cur  []int
	)
	for i, l := range s.Levels {
		if !l.Valid {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// Values returns the levels as nullable values, nil at no-data slots
func (s EarSeries) Values() []*float64 {
	out := make([]*float64, FrequencyCount)
	for i, l := range s.Levels {
		out[i] = l.Ptr()
	}
	return out
}

// Audiogram is the normalized form of a threshold record
type Audiogram struct {
	TestID      string                    `json:"test_id" yaml:"test_id"`
	Frequencies [FrequencyCount]Frequency `json:"frequencies" yaml:"frequencies"`
	Left        EarSeries                 `json:"left" yaml:"left"`
	Right       EarSeries                 `json:"right" yaml:"right"`
}
