// Package api exposes the scan catalog, cube queries, exports and plot
// renderings over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/beamline-data/spectra.report/internal/config"
	"github.com/beamline-data/spectra.report/internal/db"
	"github.com/beamline-data/spectra.report/internal/httputil"
	"github.com/beamline-data/spectra.report/internal/loader"
	"github.com/beamline-data/spectra.report/internal/timeutil"
	"github.com/beamline-data/spectra.report/internal/units"
	"github.com/beamline-data/spectra.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db       *db.DB
	loader   *loader.Loader
	cubes    *CubeStore
	cfg      *config.TuningConfig
	plotDir  string
	dataDirs []string
	clock    timeutil.Clock
}

func NewServer(database *db.DB, l *loader.Loader, cfg *config.TuningConfig, clock timeutil.Clock) *Server {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Server{
		db:       database,
		loader:   l,
		cubes:    NewCubeStore(cfg.GetCubeCacheTTL(), clock),
		cfg:      cfg,
		plotDir:  cfg.GetPlotOutputDir(),
		dataDirs: cfg.GetDataDirs(),
		clock:    clock,
	}
}

// Cubes exposes the cache so the serve command can run its janitor.
func (s *Server) Cubes() *CubeStore {
	return s.cubes
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scans/load", s.loadScan)
	mux.HandleFunc("/api/scans", s.listScans)
	mux.HandleFunc("/api/scans/detail", s.scanDetail)
	mux.HandleFunc("/api/cube/meta", s.cubeMeta)
	mux.HandleFunc("/api/cube/slice", s.cubeSlice)
	mux.HandleFunc("/api/cube/edc", s.cubeEDC)
	mux.HandleFunc("/api/cube/mdc", s.cubeMDC)
	mux.HandleFunc("/api/export/arrow", s.exportArrow)
	mux.HandleFunc("/api/export/tsv", s.exportTSV)
	mux.HandleFunc("/api/plots/map", s.plotMap)
	mux.HandleFunc("/api/plots/edc", s.plotEDC)
	mux.HandleFunc("/api/plots/mdc", s.plotMDC)
	mux.HandleFunc("/debug/spectra/heatmap", s.debugHeatmap)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/healthz", s.healthz)
	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"git_sha": version.GitSHA,
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"data_marker":        s.cfg.GetDataMarker(),
		"angle_offsets":      s.cfg.GetAngleOffsets(),
		"file_pattern":       s.cfg.GetFilePattern(),
		"ky_min":             s.cfg.GetKyMin(),
		"ky_max":             s.cfg.GetKyMax(),
		"plot_output_dir":    s.plotDir,
		"data_dirs":          s.dataDirs,
		"cube_cache_ttl_s":   int(s.cfg.GetCubeCacheTTL().Seconds()),
		"valid_energy_units": units.ValidEnergyUnits,
		"valid_angle_units":  units.ValidAngleUnits,
	})
}
