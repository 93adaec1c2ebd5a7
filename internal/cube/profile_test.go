package cube

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/beamline-data/spectra.report/internal/ses"
)

func TestMapKxEnergy(t *testing.T) {
	slices := []ses.Slice{
		sliceFor("a", 0, []float64{1, 2}, [][]float64{{2, 4}, {6, 8}}),
		sliceFor("b", 1, []float64{1, 2}, [][]float64{{10, 20}, {30, 50}}),
	}
	c, err := Assemble(slices, -1, 1)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	want := [][]float64{{3, 15}, {7, 40}}
	if diff := cmp.Diff(want, c.MapKxEnergy()); diff != "" {
		t.Errorf("MapKxEnergy() mismatch (-want +got):\n%s", diff)
	}
}

func TestProfilesSkipNaN(t *testing.T) {
	// Padded pixels must not drag profile means down.
	slices := []ses.Slice{
		sliceFor("wide", 0, []float64{1}, [][]float64{{2, 4, 6, 8}}),
		sliceFor("narrow", 1, []float64{1}, [][]float64{{10, 20}}),
	}
	c, err := Assemble(slices, -1, 1)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	edc := c.EDC(1)
	if len(edc) != 1 || edc[0] != 15 {
		t.Errorf("EDC(1) = %v, want [15]", edc)
	}
	mdc := c.MDC(0)
	want := []float64{5, 15}
	if diff := cmp.Diff(want, mdc); diff != "" {
		t.Errorf("MDC(0) mismatch (-want +got):\n%s", diff)
	}
}

func TestProfilesAllNaN(t *testing.T) {
	slices := []ses.Slice{
		sliceFor("a", 0, []float64{1, 2}, [][]float64{{1, 2}, {3, 4}}),
		sliceFor("b", 1, []float64{3}, [][]float64{{5, 6}}),
	}
	c, err := Assemble(slices, -1, 1)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	// Slice b contributes nothing at energy index 0, so its EDC entry
	// there is NaN.
	edc := c.EDC(1)
	if !math.IsNaN(edc[0]) {
		t.Errorf("EDC(1)[0] = %v, want NaN", edc[0])
	}
	if edc[2] != 5.5 {
		t.Errorf("EDC(1)[2] = %v, want 5.5", edc[2])
	}
}
