package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/beamline-data/spectra.report/internal/httputil"
)

// debugHeatmap renders the ky-integrated map as an interactive HTML chart
// using go-echarts: one point per (kx, energy) cell, colored by intensity.
// This is a debugging-only endpoint (no auth) for eyeballing a scan without
// pulling the data into an analysis environment.
func (s *Server) debugHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	scanID, c, ok := s.cachedCube(w, r)
	if !ok {
		return
	}

	nE, nX, _ := c.Dims()
	m := c.MapKxEnergy()

	data := make([]opts.ScatterData, 0, nE*nX)
	maxVal := 0.0
	for e := 0; e < nE; e++ {
		for x := 0; x < nX; x++ {
			v := m[e][x]
			if math.IsNaN(v) {
				continue
			}
			if v > maxVal {
				maxVal = v
			}
			data = append(data, opts.ScatterData{Value: []interface{}{c.Kx[x], c.Energy[e], v}})
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Spectral Map", Theme: "dark", Width: "1100px", Height: "750px"}),
		charts.WithTitleOpts(opts.Title{Title: "Spectral Map", Subtitle: fmt.Sprintf("scan=%s energies=%d angles=%d", scanID, nE, nX)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "kx (deg)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "E (eV)", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)

	scatter.AddSeries("intensity", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
