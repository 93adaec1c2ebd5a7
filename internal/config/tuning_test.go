package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetDataMarker(); got != "[Data]" {
		t.Errorf("GetDataMarker() = %q, want [Data]", got)
	}
	if diff := cmp.Diff([]int{3, 4}, cfg.GetAngleOffsets()); diff != "" {
		t.Errorf("GetAngleOffsets() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetFilePattern(); got != "S313_MgB2_*.txt" {
		t.Errorf("GetFilePattern() = %q", got)
	}
	if cfg.GetKyMin() != -1.0 || cfg.GetKyMax() != 1.0 {
		t.Errorf("ky range = [%v, %v], want [-1, 1]", cfg.GetKyMin(), cfg.GetKyMax())
	}
	if got := cfg.GetPlotOutputDir(); got != "plots" {
		t.Errorf("GetPlotOutputDir() = %q, want plots", got)
	}
	if got := cfg.GetCubeCacheTTL(); got != 30*time.Minute {
		t.Errorf("GetCubeCacheTTL() = %v, want 30m", got)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tuning.json")

	testJSON := `{
  "data_marker": "[Spectrum]",
  "angle_offsets": [2, 3],
  "file_pattern": "run_*.dat",
  "ky_min": -0.5,
  "ky_max": 0.5,
  "plot_output_dir": "out/plots",
  "data_dirs": ["/srv/arpes"],
  "cube_cache_ttl_seconds": 600
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	if got := cfg.GetDataMarker(); got != "[Spectrum]" {
		t.Errorf("GetDataMarker() = %q", got)
	}
	if diff := cmp.Diff([]int{2, 3}, cfg.GetAngleOffsets()); diff != "" {
		t.Errorf("GetAngleOffsets() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetFilePattern(); got != "run_*.dat" {
		t.Errorf("GetFilePattern() = %q", got)
	}
	if cfg.GetKyMin() != -0.5 || cfg.GetKyMax() != 0.5 {
		t.Errorf("ky range = [%v, %v]", cfg.GetKyMin(), cfg.GetKyMax())
	}
	if diff := cmp.Diff([]string{"/srv/arpes"}, cfg.GetDataDirs()); diff != "" {
		t.Errorf("GetDataDirs() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetCubeCacheTTL(); got != 10*time.Minute {
		t.Errorf("GetCubeCacheTTL() = %v, want 10m", got)
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")
	if err := os.WriteFile(configPath, []byte(`{"file_pattern": "cut_*.txt"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetFilePattern(); got != "cut_*.txt" {
		t.Errorf("GetFilePattern() = %q", got)
	}
	// Unset fields keep defaults.
	if got := cfg.GetDataMarker(); got != "[Data]" {
		t.Errorf("GetDataMarker() = %q, want default", got)
	}
}

func TestLoadTuningConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "tuning.yaml")
		os.WriteFile(path, []byte("{}"), 0644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected extension error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTuningConfig(filepath.Join(tmpDir, "nope.json")); err == nil {
			t.Error("expected stat error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.json")
		os.WriteFile(path, []byte("{nope"), 0644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	empty := ""
	negTTL := -5
	lo, hi := 1.0, -1.0

	tests := []struct {
		name    string
		cfg     TuningConfig
		wantErr bool
	}{
		{"empty valid", TuningConfig{}, false},
		{"empty marker", TuningConfig{DataMarker: &empty}, true},
		{"negative offset", TuningConfig{AngleOffsets: []int{3, -1}}, true},
		{"inverted ky range", TuningConfig{KyMin: &lo, KyMax: &hi}, true},
		{"non-positive ttl", TuningConfig{CubeCacheTTLSeconds: &negTTL}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
