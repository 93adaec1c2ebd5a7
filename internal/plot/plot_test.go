package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamline-data/spectra.report/internal/cube"
)

func testCube() *cube.Cube {
	return &cube.Cube{
		Energy: []float64{20.0, 20.1, 20.2},
		Kx:     []float64{-5.0, -4.5},
		Ky:     []float64{-1.0, 0.0, 1.0},
		Data: [][][]float64{
			{{1, 2, 3}, {4, 5, 6}},
			{{7, 8, 9}, {10, math.NaN(), 12}},
			{{13, 14, 15}, {math.NaN(), math.NaN(), math.NaN()}},
		},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func TestSpectralMapPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, SpectralMapPNG(testCube(), path))
	assertPNG(t, path)
}

func TestSpectralMapPNGEmptyCube(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	err := SpectralMapPNG(&cube.Cube{}, path)
	assert.Error(t, err)
}

func TestEDCPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edc.png")
	require.NoError(t, EDCPNG(testCube(), 1, path))
	assertPNG(t, path)

	assert.Error(t, EDCPNG(testCube(), 5, path))
}

func TestMDCPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdc.png")
	require.NoError(t, MDCPNG(testCube(), 0, path))
	assertPNG(t, path)

	assert.Error(t, MDCPNG(testCube(), -1, path))
}

func TestMakePlotOutputDir(t *testing.T) {
	base := t.TempDir()
	stamp := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	dir, err := MakePlotOutputDir(base, stamp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "20260314_150926"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFormatTimestamp(t *testing.T) {
	stamp := time.Date(2026, 1, 7, 17, 31, 29, 0, time.UTC)
	assert.Equal(t, "20260107_173129", FormatTimestamp(stamp))
}
