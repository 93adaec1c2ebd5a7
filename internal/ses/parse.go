// Package ses parses text files exported by a Scienta SES analyzer.
//
// Each file carries a free-form metadata header terminated by a literal
// "[Data]" marker line, followed by a tab-separated numeric body. The first
// body column is the kinetic energy coordinate; the remaining columns are
// detector pixel intensities. The deflection angle for the slice sits a
// fixed number of lines before the marker.
package ses

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultMarker is the header line that separates metadata from the body.
const DefaultMarker = "[Data]"

// DefaultAngleOffsets are the line offsets (before the marker) tried when
// locating the deflection angle. The analyzer usually writes the angle three
// lines above the marker, but some export modes insert an extra line.
var DefaultAngleOffsets = []int{3, 4}

// ErrNoDataMarker reports a file whose header never contains the marker.
var ErrNoDataMarker = errors.New("no data marker found")

// ErrNoAngle reports a file whose angle value failed to parse at every
// configured offset.
var ErrNoAngle = errors.New("angle not parseable at any offset")

// Header is the result of scanning a file's header region.
type Header struct {
	// DataStart is the index of the first body line (the line after the
	// marker).
	DataStart int

	// Angle is the deflection angle parsed from the header. Only valid
	// when AngleOK is true.
	Angle float64

	// AngleOK reports whether any configured offset yielded a parseable
	// angle value.
	AngleOK bool

	// MarkerLine is the index of the marker line itself.
	MarkerLine int
}

// Slice is one fully parsed file: a 2D energy-by-pixel intensity table plus
// the deflection angle of the slice.
type Slice struct {
	Name     string
	Angle    float64
	Energies []float64
	Counts   [][]float64
}

// Rows returns the number of energy rows in the slice.
func (s *Slice) Rows() int { return len(s.Energies) }

// Cols returns the number of pixel columns in the slice.
func (s *Slice) Cols() int {
	if len(s.Counts) == 0 {
		return 0
	}
	return len(s.Counts[0])
}

// ParseHeader scans lines for the first occurrence of marker (substring
// containment, not equality) and locates the angle value. Each offset is
// tried in order against the line that many positions before the marker;
// an offset that underruns the start of the file counts as a failed parse
// for that offset. When every offset fails the header is returned with
// AngleOK false so the caller can decide whether to skip the file.
func ParseHeader(lines []string, marker string, offsets []int) (Header, error) {
	for i, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		h := Header{DataStart: i + 1, MarkerLine: i}
		for _, off := range offsets {
			j := i - off
			if j < 0 {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(lines[j]), 64)
			if err != nil {
				continue
			}
			h.Angle = v
			h.AngleOK = true
			break
		}
		return h, nil
	}
	return Header{}, ErrNoDataMarker
}

// ParseSlice reads a whole SES file: header scan followed by the
// tab-separated body. Body rows must be numeric and rectangular; a
// malformed row is an error rather than a skip, because a truncated body
// usually means the export was interrupted. Blank trailing lines are
// ignored.
func ParseSlice(name string, r io.Reader, marker string, offsets []int) (Slice, error) {
	lines, err := readLines(r)
	if err != nil {
		return Slice{}, fmt.Errorf("read %s: %w", name, err)
	}

	h, err := ParseHeader(lines, marker, offsets)
	if err != nil {
		return Slice{}, err
	}

	if !h.AngleOK {
		// The angle is checked before the body so a corrupt body in a
		// skippable file does not abort a whole directory load.
		return Slice{}, fmt.Errorf("%s: %w", name, ErrNoAngle)
	}
	s := Slice{Name: name, Angle: h.Angle}

	for ln := h.DataStart; ln < len(lines); ln++ {
		raw := lines[ln]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		fields := strings.Split(raw, "\t")
		energy, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return Slice{}, fmt.Errorf("%s: line %d: bad energy value %q: %w", name, ln+1, fields[0], err)
		}
		// NaN and Inf parse, but energy values key the cube's row union
		// and a NaN key can never be looked up again
		if math.IsNaN(energy) || math.IsInf(energy, 0) {
			return Slice{}, fmt.Errorf("%s: line %d: non-finite energy value %q", name, ln+1, fields[0])
		}
		row := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return Slice{}, fmt.Errorf("%s: line %d: bad intensity value %q: %w", name, ln+1, f, err)
			}
			row = append(row, v)
		}
		if len(s.Counts) > 0 && len(row) != len(s.Counts[0]) {
			return Slice{}, fmt.Errorf("%s: line %d: ragged row, %d columns (want %d)", name, ln+1, len(row), len(s.Counts[0]))
		}
		s.Energies = append(s.Energies, energy)
		s.Counts = append(s.Counts, row)
	}

	return s, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
