package export

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamline-data/spectra.report/internal/cube"
)

func testCube() *cube.Cube {
	return &cube.Cube{
		Energy: []float64{20.0, 20.1},
		Kx:     []float64{-5.0, -4.5, -4.5},
		Ky:     []float64{-1.0, 1.0},
		Data: [][][]float64{
			{
				{1, 2},
				{3, 4},
				{5, 6},
			},
			{
				{7, 8},
				{9, math.NaN()},
				{11, 12},
			},
		},
	}
}

func TestSerializeDeserializeCube(t *testing.T) {
	codec := NewCodec()

	data, err := codec.SerializeCube(testCube())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := codec.DeserializeCube(data)
	require.NoError(t, err)

	if diff := cmp.Diff(testCube(), got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("cube mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeCubeKeepsDuplicateAngles(t *testing.T) {
	// repeated kx values must survive the round trip as-is
	codec := NewCodec()

	data, err := codec.SerializeCube(testCube())
	require.NoError(t, err)

	got, err := codec.DeserializeCube(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{-5.0, -4.5, -4.5}, got.Kx)
}

func TestDeserializeCubeRejectsGarbage(t *testing.T) {
	codec := NewCodec()

	_, err := codec.DeserializeCube([]byte("definitely not arrow"))
	assert.Error(t, err)
}
