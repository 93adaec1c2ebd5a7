// Package config loads the JSON tuning file controlling SES parsing and
// cube assembly defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TuningConfig represents the root configuration for loader parameters.
// All fields are optional in the JSON; the Get* methods provide fallback
// defaults for anything left unset, so partial configs are safe.
type TuningConfig struct {
	// Parsing params
	DataMarker   *string `json:"data_marker,omitempty"`
	AngleOffsets []int   `json:"angle_offsets,omitempty"`
	FilePattern  *string `json:"file_pattern,omitempty"`

	// Momentum axis params. Placeholder pixel-to-momentum bounds, not a
	// calibration.
	KyMin *float64 `json:"ky_min,omitempty"`
	KyMax *float64 `json:"ky_max,omitempty"`

	// Service params
	PlotOutputDir       *string  `json:"plot_output_dir,omitempty"`
	DataDirs            []string `json:"data_dirs,omitempty"`
	CubeCacheTTLSeconds *int     `json:"cube_cache_ttl_seconds,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.DataMarker != nil && *c.DataMarker == "" {
		return fmt.Errorf("data_marker must not be empty")
	}

	for _, off := range c.AngleOffsets {
		if off < 0 {
			return fmt.Errorf("angle_offsets must be non-negative, got %d", off)
		}
	}

	if c.KyMin != nil && c.KyMax != nil && *c.KyMin >= *c.KyMax {
		return fmt.Errorf("ky_min (%f) must be less than ky_max (%f)", *c.KyMin, *c.KyMax)
	}

	if c.CubeCacheTTLSeconds != nil && *c.CubeCacheTTLSeconds <= 0 {
		return fmt.Errorf("cube_cache_ttl_seconds must be positive, got %d", *c.CubeCacheTTLSeconds)
	}

	return nil
}

// GetDataMarker returns the data_marker value or the default.
func (c *TuningConfig) GetDataMarker() string {
	if c.DataMarker == nil {
		return "[Data]" // default
	}
	return *c.DataMarker
}

// GetAngleOffsets returns the angle_offsets value or the default.
func (c *TuningConfig) GetAngleOffsets() []int {
	if len(c.AngleOffsets) == 0 {
		return []int{3, 4} // default: primary offset then fallback
	}
	return c.AngleOffsets
}

// GetFilePattern returns the file_pattern value or the default.
func (c *TuningConfig) GetFilePattern() string {
	if c.FilePattern == nil {
		return "S313_MgB2_*.txt" // default: the SES export naming convention
	}
	return *c.FilePattern
}

// GetKyMin returns the ky_min value or the default.
func (c *TuningConfig) GetKyMin() float64 {
	if c.KyMin == nil {
		return -1.0
	}
	return *c.KyMin
}

// GetKyMax returns the ky_max value or the default.
func (c *TuningConfig) GetKyMax() float64 {
	if c.KyMax == nil {
		return 1.0
	}
	return *c.KyMax
}

// GetPlotOutputDir returns the plot_output_dir value or the default.
func (c *TuningConfig) GetPlotOutputDir() string {
	if c.PlotOutputDir == nil {
		return "plots"
	}
	return *c.PlotOutputDir
}

// GetDataDirs returns the configured data roots. Empty means the API
// accepts any directory.
func (c *TuningConfig) GetDataDirs() []string {
	return c.DataDirs
}

// GetCubeCacheTTL returns the cube cache TTL as a time.Duration.
func (c *TuningConfig) GetCubeCacheTTL() time.Duration {
	if c.CubeCacheTTLSeconds == nil {
		return 30 * time.Minute // default
	}
	return time.Duration(*c.CubeCacheTTLSeconds) * time.Second
}
