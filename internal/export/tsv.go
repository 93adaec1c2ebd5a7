package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/beamline-data/spectra.report/internal/cube"
)

// formatCell renders one intensity value. NaN cells come out empty so the
// table stays rectangular without inventing numbers.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteSliceTSV writes the detector image at one kx as a tab-separated
// table in the same layout the instrument exports: an energy column
// followed by one column per detector pixel.
func WriteSliceTSV(w io.Writer, c *cube.Cube, kxIdx int) error {
	nE, nX, nY := c.Dims()
	if kxIdx < 0 || kxIdx >= nX {
		return fmt.Errorf("kx index %d out of range [0, %d)", kxIdx, nX)
	}

	bw := bufio.NewWriter(w)
	for e := 0; e < nE; e++ {
		fmt.Fprint(bw, strconv.FormatFloat(c.Energy[e], 'g', -1, 64))
		for y := 0; y < nY; y++ {
			fmt.Fprint(bw, "\t", formatCell(c.At(e, kxIdx, y)))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteMapTSV writes the ky-integrated energy map: a header row of kx
// values, then one row per energy with the energy in the first column.
func WriteMapTSV(w io.Writer, c *cube.Cube) error {
	nE, nX, _ := c.Dims()
	m := c.MapKxEnergy()

	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "energy")
	for x := 0; x < nX; x++ {
		fmt.Fprint(bw, "\t", strconv.FormatFloat(c.Kx[x], 'g', -1, 64))
	}
	fmt.Fprintln(bw)

	for e := 0; e < nE; e++ {
		fmt.Fprint(bw, strconv.FormatFloat(c.Energy[e], 'g', -1, 64))
		for x := 0; x < nX; x++ {
			fmt.Fprint(bw, "\t", formatCell(m[e][x]))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
