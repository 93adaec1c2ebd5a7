// Package cube assembles parsed SES slices into a labeled 3D intensity
// array indexed by energy, kx and ky.
package cube

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/beamline-data/spectra.report/internal/ses"
)

// Cube is the combined dataset: Data[e][x][y] is the intensity at
// Energy[e], Kx[x], Ky[y]. Cells with no source measurement hold NaN.
type Cube struct {
	Energy []float64
	Kx     []float64
	Ky     []float64
	Data   [][][]float64
}

// DefaultKyMin and DefaultKyMax bound the synthesized ky coordinate. They
// are placeholders for the pixel-to-momentum mapping, not calibrated
// values.
const (
	DefaultKyMin = -1.0
	DefaultKyMax = 1.0
)

// Assemble concatenates slices along the angle axis with outer-join
// semantics:
//
//   - The energy axis is the sorted ascending union of every slice's
//     energies; slices missing a row contribute NaN there.
//   - Kx gets one entry per slice, in input order, from the parsed angle.
//     Duplicate angles stay as duplicate entries.
//   - The pixel axis spans the widest slice; narrower slices are NaN-padded
//     on the right, never truncated.
//
// Ky is always linspace(kyMin, kyMax) over the final pixel count.
func Assemble(slices []ses.Slice, kyMin, kyMax float64) (*Cube, error) {
	if len(slices) == 0 {
		return nil, errors.New("no slices to assemble")
	}

	// Union of energy values across slices, sorted ascending.
	energySet := make(map[float64]struct{})
	pixels := 0
	for _, s := range slices {
		if s.Rows() == 0 {
			return nil, fmt.Errorf("slice %s has an empty body", s.Name)
		}
		for _, e := range s.Energies {
			energySet[e] = struct{}{}
		}
		if s.Cols() > pixels {
			pixels = s.Cols()
		}
	}
	energies := make([]float64, 0, len(energySet))
	for e := range energySet {
		energies = append(energies, e)
	}
	sort.Float64s(energies)
	energyIdx := make(map[float64]int, len(energies))
	for i, e := range energies {
		energyIdx[e] = i
	}

	c := &Cube{
		Energy: energies,
		Kx:     make([]float64, len(slices)),
		Ky:     linspace(kyMin, kyMax, pixels),
		Data:   make([][][]float64, len(energies)),
	}
	for e := range c.Data {
		c.Data[e] = make([][]float64, len(slices))
		for x := range c.Data[e] {
			row := make([]float64, pixels)
			for y := range row {
				row[y] = math.NaN()
			}
			c.Data[e][x] = row
		}
	}

	for x, s := range slices {
		c.Kx[x] = s.Angle
		for i, e := range s.Energies {
			ei := energyIdx[e]
			copy(c.Data[ei][x], s.Counts[i])
		}
	}

	return c, nil
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Dims returns the axis lengths (energy, kx, ky).
func (c *Cube) Dims() (nEnergy, nKx, nKy int) {
	return len(c.Energy), len(c.Kx), len(c.Ky)
}

// At returns the intensity at the given axis indices.
func (c *Cube) At(e, x, y int) float64 {
	return c.Data[e][x][y]
}

// EnergySlice returns the energy-by-ky intensity plane at the given kx
// index. The returned rows alias the cube's storage.
func (c *Cube) EnergySlice(x int) [][]float64 {
	plane := make([][]float64, len(c.Energy))
	for e := range c.Data {
		plane[e] = c.Data[e][x]
	}
	return plane
}
