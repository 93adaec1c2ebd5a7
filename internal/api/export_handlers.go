package api

import (
	"fmt"
	"net/http"

	"github.com/beamline-data/spectra.report/internal/export"
	"github.com/beamline-data/spectra.report/internal/httputil"
	"github.com/beamline-data/spectra.report/internal/monitoring"
	"github.com/beamline-data/spectra.report/internal/security"
)

func (s *Server) exportArrow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	data, err := export.NewCodec().SerializeCube(c)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to serialize cube: %v", err))
		return
	}

	filename := security.SanitizeFilename("scan_"+scanID) + ".arrow"
	httputil.SetDownloadHeaders(w, filename, "application/vnd.apache.arrow.stream")
	w.Write(data)
}

func (s *Server) exportTSV(w http.ResponseWriter, r *http.Request) {
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

	filename := security.SanitizeFilename(fmt.Sprintf("scan_%s_kx%d", scanID, kxIdx)) + ".tsv"
	httputil.SetDownloadHeaders(w, filename, "text/tab-separated-values")
	if err := export.WriteSliceTSV(w, c, kxIdx); err != nil {
		// headers already sent; log only
		monitoring.Logf("failed to write TSV export: %v", err)
	}
}
