package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamline-data/spectra.report/internal/ses"
)

// Two pixel columns is the narrowest output the flag check admits; the
// intensity band must stay finite there.
func TestRenderFileMinimumWidth(t *testing.T) {
	oldPixels, oldPoints := *pixels, *energyPoints
	*pixels = 2
	*energyPoints = 3
	defer func() { *pixels, *energyPoints = oldPixels, oldPoints }()

	content := renderFile(-5.0, false, false)
	assert.NotContains(t, content, "NaN")

	s, err := ses.ParseSlice("synthetic", strings.NewReader(content), ses.DefaultMarker, ses.DefaultAngleOffsets)
	require.NoError(t, err)
	assert.Equal(t, -5.0, s.Angle)
	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, 2, s.Cols())
	for _, row := range s.Counts {
		for _, v := range row {
			assert.False(t, math.IsNaN(v))
		}
	}
}
