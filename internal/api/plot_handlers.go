package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/beamline-data/spectra.report/internal/httputil"
	"github.com/beamline-data/spectra.report/internal/plot"
	"github.com/beamline-data/spectra.report/internal/security"
)

// renderAndServe writes the PNG produced by render into a timestamped plot
// directory and serves it back.
func (s *Server) renderAndServe(w http.ResponseWriter, r *http.Request, name string, render func(path string) error) {
	dir, err := plot.MakePlotOutputDir(s.plotDir, s.clock.Now())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to create plot dir: %v", err))
		return
	}

	path := filepath.Join(dir, security.SanitizeFilename(name)+".png")
	if err := render(path); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func (s *Server) plotMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	s.renderAndServe(w, r, "map_"+scanID, func(path string) error {
		return plot.SpectralMapPNG(c, path)
	})
}

func (s *Server) plotEDC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	_, nX, _ := c.Dims()
	kxIdx, ok := indexParam(w, r, "kx", nX)
	if !ok {
		return
	}

	s.renderAndServe(w, r, fmt.Sprintf("edc_%s_kx%d", scanID, kxIdx), func(path string) error {
		return plot.EDCPNG(c, kxIdx, path)
	})
}

func (s *Server) plotMDC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	nE, _, _ := c.Dims()
	energyIdx, ok := indexParam(w, r, "energy", nE)
	if !ok {
		return
	}

	s.renderAndServe(w, r, fmt.Sprintf("mdc_%s_e%d", scanID, energyIdx), func(path string) error {
		return plot.MDCPNG(c, energyIdx, path)
	})
}
