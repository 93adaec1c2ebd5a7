package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/beamline-data/spectra.report/internal/cube"
	"github.com/beamline-data/spectra.report/internal/db"
	"github.com/beamline-data/spectra.report/internal/httputil"
	"github.com/beamline-data/spectra.report/internal/loader"
	"github.com/beamline-data/spectra.report/internal/security"
)

type loadRequest struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern"`
}

type loadResponse struct {
	Scan   *db.Scan       `json:"scan"`
	Report *loader.Report `json:"report"`
}

func minMax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func scanFromLoad(scanID string, c *cube.Cube, report *loader.Report) *db.Scan {
	nE, nX, nY := c.Dims()
	energyMin, energyMax := minMax(c.Energy)
	angleMin, angleMax := minMax(c.Kx)

	return &db.Scan{
		ScanID:       scanID,
		Directory:    report.Directory,
		Pattern:      report.Pattern,
		FileCount:    len(report.Files),
		SkippedCount: report.Skipped,
		EnergyPoints: nE,
		AngleCount:   nX,
		PixelCount:   nY,
		EnergyMin:    energyMin,
		EnergyMax:    energyMax,
		AngleMin:     angleMin,
		AngleMax:     angleMax,
	}
}

func scanFilesFromReport(scanID string, report *loader.Report) []db.ScanFile {
	files := make([]db.ScanFile, 0, len(report.Files))
	for _, f := range report.Files {
		sf := db.ScanFile{
			ScanID:   scanID,
			FileName: f.Name,
			Status:   f.Status,
			Rows:     f.Rows,
			Cols:     f.Cols,
		}
		if f.Status == loader.StatusLoaded {
			angle := f.Angle
			sf.Angle = &angle
		}
		files = append(files, sf)
	}
	return files
}

func (s *Server) loadScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.Directory == "" {
		httputil.BadRequest(w, "Missing 'directory' field")
		return
	}

	if len(s.dataDirs) > 0 {
		if err := security.ValidatePathWithinAllowedDirs(req.Directory, s.dataDirs); err != nil {
			httputil.WriteJSONError(w, http.StatusForbidden,
				fmt.Sprintf("Directory not allowed: %v", err))
			return
		}
	}

	c, report, err := s.loader.LoadDirectory(req.Directory, req.Pattern)
	switch {
	case err == nil:
	case errors.Is(err, loader.ErrNoFiles):
		httputil.NotFound(w, err.Error())
		return
	case errors.Is(err, loader.ErrNoValidData):
		httputil.UnprocessableEntity(w, err.Error())
		return
	default:
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load directory: %v", err))
		return
	}

	scanID := uuid.New().String()
	scan := scanFromLoad(scanID, c, report)

	if err := s.db.RecordScan(scan); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to record scan: %v", err))
		return
	}
	if err := s.db.RecordScanFiles(scanID, scanFilesFromReport(scanID, report)); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to record scan files: %v", err))
		return
	}

	s.cubes.Put(scanID, c)

	// re-read so created_at is populated
	stored, err := s.db.GetScan(scanID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to read back scan: %v", err))
		return
	}

	httputil.WriteJSONOK(w, loadResponse{Scan: stored, Report: report})
}

func (s *Server) listScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	scans, err := s.db.ListScans(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list scans: %v", err))
		return
	}

	if scans == nil {
		scans = []db.Scan{}
	}
	httputil.WriteJSONOK(w, scans)
}

type scanDetailResponse struct {
	Scan  *db.Scan      `json:"scan"`
	Files []db.ScanFile `json:"files"`
}

func (s *Server) scanDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID := r.URL.Query().Get("id")
	if scanID == "" {
		httputil.BadRequest(w, "Missing 'id' parameter")
		return
	}

	scan, err := s.db.GetScan(scanID)
	if errors.Is(err, sql.ErrNoRows) {
		httputil.NotFound(w, "Scan not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to get scan: %v", err))
		return
	}

	files, err := s.db.ScanFiles(scanID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to get scan files: %v", err))
		return
	}
	if files == nil {
		files = []db.ScanFile{}
	}

	httputil.WriteJSONOK(w, scanDetailResponse{Scan: scan, Files: files})
}
