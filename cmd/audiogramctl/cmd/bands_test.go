package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/audiogram/internal/audiogram"
	"github.com/RMahshie/audiogram/pkg/models"
)

func TestBandsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"bands"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var doc struct {
		Bands []bandOutput `yaml:"bands"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Bands, 5)
	assert.Equal(t, "Normal", doc.Bands[0].Name)
	assert.Equal(t, -10.0, doc.Bands[0].MinDB)
	assert.Equal(t, "Profound", doc.Bands[4].Name)
	assert.Equal(t, "rgba(255, 0, 0, 0.2)", doc.Bands[4].Color)
}

func TestWriteSeries(t *testing.T) {
	v := 20.0
	rec := &models.ThresholdRecord{
		TestID: "ht-1",
		Readings: []models.Reading{
			{Ear: models.EarLeft, Frequency: 1000, HearingLevel: &v},
		},
	}
	a, err := audiogram.Normalize("ht-1", rec)
	require.NoError(t, err)

	var out bytes.Buffer
	seriesCmd.SetOut(&out)
	t.Cleanup(func() { seriesCmd.SetOut(nil) })
	require.NoError(t, writeSeries(seriesCmd, a))

	var doc struct {
		TestID string `yaml:"test_id"`
		Left   struct {
			Levels []*float64 `yaml:"levels"`
		} `yaml:"left"`
		Right struct {
			Levels []*float64 `yaml:"levels"`
		} `yaml:"right"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ht-1", doc.TestID)
	require.Len(t, doc.Left.Levels, models.FrequencyCount)
	assert.Nil(t, doc.Left.Levels[0])
	require.NotNil(t, doc.Left.Levels[2])
	assert.Equal(t, 20.0, *doc.Left.Levels[2])
	for _, l := range doc.Right.Levels {
		assert.Nil(t, l)
	}
}
