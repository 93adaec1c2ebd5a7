// Package loader walks a directory of SES exports and assembles them into
// one combined cube.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/beamline-data/spectra.report/internal/config"
	"github.com/beamline-data/spectra.report/internal/cube"
	"github.com/beamline-data/spectra.report/internal/fsutil"
	"github.com/beamline-data/spectra.report/internal/monitoring"
	"github.com/beamline-data/spectra.report/internal/ses"
)

// ErrNoFiles reports that the glob matched nothing in the directory.
var ErrNoFiles = errors.New("no files found")

// ErrNoValidData reports that every matched file failed parsing.
var ErrNoValidData = errors.New("no valid datasets")

// File statuses recorded in the load report.
const (
	StatusLoaded   = "loaded"
	StatusNoMarker = "skipped_no_marker"
	StatusBadAngle = "skipped_bad_angle"
)

// Loader reads SES directories through a FileSystem using the tuning
// parameters captured at construction.
type Loader struct {
	fs      fsutil.FileSystem
	marker  string
	offsets []int
	kyMin   float64
	kyMax   float64
	pattern string
}

// New builds a Loader from the tuning config.
func New(fs fsutil.FileSystem, cfg *config.TuningConfig) *Loader {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Loader{
		fs:      fs,
		marker:  cfg.GetDataMarker(),
		offsets: cfg.GetAngleOffsets(),
		kyMin:   cfg.GetKyMin(),
		kyMax:   cfg.GetKyMax(),
		pattern: cfg.GetFilePattern(),
	}
}

// DefaultPattern returns the glob used when the caller supplies none.
func (l *Loader) DefaultPattern() string { return l.pattern }

// FileResult records the outcome for a single matched file.
type FileResult struct {
	Name   string  `json:"name"`
	Angle  float64 `json:"angle"`
	Status string  `json:"status"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
}

// Report summarises one directory load.
type Report struct {
	Directory string        `json:"directory"`
	Pattern   string        `json:"pattern"`
	Files     []FileResult  `json:"files"`
	Loaded    int           `json:"loaded"`
	Skipped   int           `json:"skipped"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// LoadDirectory globs dir/pattern (lexicographically sorted), parses each
// match and assembles the combined cube. Files without a data marker are
// skipped silently; files whose angle fails to parse at every offset are
// skipped with a warning. A malformed body aborts the whole load: that
// points at truncated or corrupt instrument output rather than an
// expected export variant.
func (l *Loader) LoadDirectory(dir, pattern string) (*cube.Cube, *Report, error) {
	if pattern == "" {
		pattern = l.pattern
	}
	start := time.Now()

	matches, err := l.fs.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("%w in %s with pattern %s", ErrNoFiles, dir, pattern)
	}

	report := &Report{Directory: dir, Pattern: pattern}
	var slices []ses.Slice

	for _, path := range matches {
		base := filepath.Base(path)
		f, err := l.fs.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", base, err)
		}
		s, err := ses.ParseSlice(base, f, l.marker, l.offsets)
		f.Close()

		switch {
		case err == nil:
			slices = append(slices, s)
			report.Files = append(report.Files, FileResult{
				Name:   base,
				Angle:  s.Angle,
				Status: StatusLoaded,
				Rows:   s.Rows(),
				Cols:   s.Cols(),
			})
			report.Loaded++
		case errors.Is(err, ses.ErrNoDataMarker):
			report.Files = append(report.Files, FileResult{Name: base, Status: StatusNoMarker})
			report.Skipped++
		case errors.Is(err, ses.ErrNoAngle):
			monitoring.Logf("could not parse angle in %s, skipping", base)
			report.Files = append(report.Files, FileResult{Name: base, Status: StatusBadAngle})
			report.Skipped++
		default:
			return nil, nil, fmt.Errorf("parse %s: %w", base, err)
		}
	}

	if len(slices) == 0 {
		return nil, nil, fmt.Errorf("%w in %s: check file format", ErrNoValidData, dir)
	}
	maxCols := 0
	for _, s := range slices {
		if s.Cols() > maxCols {
			maxCols = s.Cols()
		}
	}
	if maxCols == 0 {
		// Rows of bare energy values parse, but with no pixel columns
		// anywhere the cube would have an empty ky axis.
		return nil, nil, fmt.Errorf("%w in %s: no pixel columns in any file", ErrNoValidData, dir)
	}

	c, err := cube.Assemble(slices, l.kyMin, l.kyMax)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble %s: %w", dir, err)
	}

	report.Elapsed = time.Since(start)
	return c, report, nil
}
