package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// FrequencyCount is the number of test frequencies on an audiogram
const FrequencyCount = 7

// Frequency is a pure-tone test frequency in Hz
type Frequency int

// CanonicalFrequencies is the fixed frequency order used for axis labels and series slots
var CanonicalFrequencies = [FrequencyCount]Frequency{250, 500, 1000, 2000, 3000, 4000, 6000}

// Label returns the axis label for the frequency, e.g. "1000 Hz"
func (f Frequency) Label() string {
	return fmt.Sprintf("%d Hz", int(f))
}

// Index returns the canonical slot of f, or -1 if f is not a test frequency
func (f Frequency) Index() int {
	for i, c := range CanonicalFrequencies {
		if c == f {
			return i
		}
	}
	return -1
}

// fieldToken is the short form used in record field names ("250", "1K", ...)
func (f Frequency) fieldToken() string {
	if f >= 1000 && f%1000 == 0 {
		return fmt.Sprintf("%dK", int(f)/1000)
	}
	return fmt.Sprintf("%d", int(f))
}

// Ear identifies which ear a threshold was measured on
type Ear string

const (
	EarLeft  Ear = "left"
	EarRight Ear = "right"
)

// Ears lists both ears in series order
var Ears = [2]Ear{EarLeft, EarRight}

func (e Ear) prefix() string {
	if e == EarLeft {
		return "L"
	}
	return "R"
}

// FieldName returns the flat record field for an ear/frequency pair, e.g. "L_1K_Hz"
func FieldName(ear Ear, f Frequency) string {
	return ear.prefix() + "_" + f.fieldToken() + "_Hz"
}

// ColumnName returns the database column for an ear/frequency pair, e.g. "l_1k_hz"
func ColumnName(ear Ear, f Frequency) string {
	return strings.ToLower(FieldName(ear, f))
}

// Level is one slot of an ear series. The zero value is the no-data marker.
type Level struct {
	DB    float64
	Valid bool
}

// NoData marks a frequency without a measured threshold
var NoData = Level{}

// LevelOf returns a present level
func LevelOf(db float64) Level {
	return Level{DB: db, Valid: true}
}

// Ptr returns the level as a nullable value
func (l Level) Ptr() *float64 {
	if !l.Valid {
		return nil
	}
	v := l.DB
	return &v
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.DB)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*l = NoData
		return nil
	}
	*l = LevelOf(*v)
	return nil
}

// Schema documents a level as a nullable number
func (Level) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeNumber, Nullable: true, Description: "Hearing level in dB HL, null when not tested"}
}

// MarshalYAML renders the no-data marker as null
func (l Level) MarshalYAML() (interface{}, error) {
	return l.Ptr(), nil
}
