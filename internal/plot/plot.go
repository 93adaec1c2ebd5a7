// Package plot renders PNG views of an assembled cube: the ky-integrated
// spectral map plus energy and momentum distribution curves.
package plot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/beamline-data/spectra.report/internal/cube"
)

// mapGrid adapts the ky-integrated energy × kx map to plotter.GridXYZ.
// Columns are kx, rows are energy.
type mapGrid struct {
	kx     []float64
	energy []float64
	z      [][]float64 // z[e][x]
}

func (g *mapGrid) Dims() (c, r int)   { return len(g.kx), len(g.energy) }
func (g *mapGrid) X(c int) float64    { return g.kx[c] }
func (g *mapGrid) Y(r int) float64    { return g.energy[r] }
func (g *mapGrid) Z(c, r int) float64 { return g.z[r][c] }

// SpectralMapPNG renders the ky-integrated map as a heatmap. NaN cells
// (energies absent from a given file) show as light gray.
func SpectralMapPNG(cb *cube.Cube, path string) error {
	nE, nX, _ := cb.Dims()
	if nE == 0 || nX == 0 {
		return fmt.Errorf("empty cube")
	}

	grid := &mapGrid{kx: cb.Kx, energy: cb.Energy, z: cb.MapKxEnergy()}

	p := plot.New()
	p.Title.Text = "Spectral Map"
	p.X.Label.Text = "kx (deg)"
	p.Y.Label.Text = "Kinetic Energy (eV)"

	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save spectral map: %w", err)
	}
	return nil
}

// curvePoints filters NaN values out of a profile so lines do not break the
// plotter.
func curvePoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

// EDCPNG renders the energy distribution curve at one kx index.
func EDCPNG(cb *cube.Cube, kxIdx int, path string) error {
	_, nX, _ := cb.Dims()
	if kxIdx < 0 || kxIdx >= nX {
		return fmt.Errorf("kx index %d out of range [0, %d)", kxIdx, nX)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("EDC at kx = %.3f", cb.Kx[kxIdx])
	p.X.Label.Text = "Kinetic Energy (eV)"
	p.Y.Label.Text = "Intensity (mean over ky)"

	line, err := plotter.NewLine(curvePoints(cb.Energy, cb.EDC(kxIdx)))
	if err != nil {
		return fmt.Errorf("failed to build EDC line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("kx %.3f", cb.Kx[kxIdx]), line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save EDC: %w", err)
	}
	return nil
}

// MDCPNG renders the momentum distribution curve at one energy index.
func MDCPNG(cb *cube.Cube, energyIdx int, path string) error {
	nE, _, _ := cb.Dims()
	if energyIdx < 0 || energyIdx >= nE {
		return fmt.Errorf("energy index %d out of range [0, %d)", energyIdx, nE)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("MDC at E = %.4f eV", cb.Energy[energyIdx])
	p.X.Label.Text = "kx (deg)"
	p.Y.Label.Text = "Intensity (mean over ky)"

	line, err := plotter.NewLine(curvePoints(cb.Kx, cb.MDC(energyIdx)))
	if err != nil {
		return fmt.Errorf("failed to build MDC line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("E %.4f", cb.Energy[energyIdx]), line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save MDC: %w", err)
	}
	return nil
}

// FormatTimestamp renders t the way plot directories are named.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir creates (and returns) a timestamped directory under
// base for one batch of rendered plots.
func MakePlotOutputDir(base string, t time.Time) (string, error) {
	dir := filepath.Join(base, FormatTimestamp(t))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	return dir, nil
}
