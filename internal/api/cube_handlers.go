package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/beamline-data/spectra.report/internal/cube"
	"github.com/beamline-data/spectra.report/internal/httputil"
)

// encoding/json rejects NaN, so padded cells go out as null.
func jsonFloats(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		if !math.IsNaN(vs[i]) {
			v := vs[i]
			out[i] = &v
		}
	}
	return out
}

func jsonFloatGrid(grid [][]float64) [][]*float64 {
	out := make([][]*float64, len(grid))
	for i := range grid {
		out[i] = jsonFloats(grid[i])
	}
	return out
}

// cachedCube looks up the cube for the request's id parameter. A miss
// (including TTL expiry) writes the 404 and returns false.
func (s *Server) cachedCube(w http.ResponseWriter, r *http.Request) (string, *cube.Cube, bool) {
	scanID := r.URL.Query().Get("id")
	if scanID == "" {
		httputil.BadRequest(w, "Missing 'id' parameter")
		return "", nil, false
	}

	c, ok := s.cubes.Get(scanID)
	if !ok {
		httputil.NotFound(w, "Cube not cached (expired or never loaded); reload the directory via /api/scans/load")
		return "", nil, false
	}
	return scanID, c, true
}

// indexParam parses a required integer query parameter and bounds-checks it.
func indexParam(w http.ResponseWriter, r *http.Request, name string, n int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		httputil.BadRequest(w, "Missing '"+name+"' parameter")
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= n {
		httputil.BadRequest(w, "Invalid '"+name+"' parameter")
		return 0, false
	}
	return idx, true
}

func (s *Server) cubeMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	nE, nX, nY := c.Dims()
	energyMin, energyMax := minMax(c.Energy)
	angleMin, angleMax := minMax(c.Kx)

	httputil.WriteJSONOK(w, map[string]interface{}{
		"scan_id":       scanID,
		"energy_points": nE,
		"angle_count":   nX,
		"pixel_count":   nY,
		"energy_min":    energyMin,
		"energy_max":    energyMax,
		"angle_min":     angleMin,
		"angle_max":     angleMax,
		"ky_min":        c.Ky[0],
		"ky_max":        c.Ky[len(c.Ky)-1],
	})
}

func (s *Server) cubeSlice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	_, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	_, nX, _ := c.Dims()
	kxIdx, ok := indexParam(w, r, "kx", nX)
	if !ok {
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"kx":        c.Kx[kxIdx],
		"energy":    c.Energy,
		"ky":        c.Ky,
		"intensity": jsonFloatGrid(c.EnergySlice(kxIdx)),
	})
}

func (s *Server) cubeEDC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	_, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	_, nX, _ := c.Dims()
	kxIdx, ok := indexParam(w, r, "kx", nX)
	if !ok {
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"kx":        c.Kx[kxIdx],
		"energy":    c.Energy,
		"intensity": jsonFloats(c.EDC(kxIdx)),
	})
}

func (s *Server) cubeMDC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	_, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	nE, _, _ := c.Dims()
	energyIdx, ok := indexParam(w, r, "energy", nE)
	if !ok {
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"energy":    c.Energy[energyIdx],
		"kx":        c.Kx,
		"intensity": jsonFloats(c.MDC(energyIdx)),
	})
}
