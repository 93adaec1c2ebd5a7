package units

import (
	"math"
	"testing"
)

func TestIsValidEnergyUnit(t *testing.T) {
	for _, u := range []string{EV, MEV} {
		if !IsValidEnergyUnit(u) {
			t.Errorf("IsValidEnergyUnit(%q) = false", u)
		}
	}
	for _, u := range []string{"", "joule", "keV"} {
		if IsValidEnergyUnit(u) {
			t.Errorf("IsValidEnergyUnit(%q) = true", u)
		}
	}
}

func TestConvertEnergy(t *testing.T) {
	tests := []struct {
		energy float64
		target string
		want   float64
	}{
		{16.5, EV, 16.5},
		{16.5, MEV, 16500},
		{0.001, MEV, 1},
		{16.5, "unknown", 16.5},
	}
	for _, tt := range tests {
		if got := ConvertEnergy(tt.energy, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertEnergy(%v, %q) = %v, want %v", tt.energy, tt.target, got, tt.want)
		}
	}
}

func TestConvertAngle(t *testing.T) {
	tests := []struct {
		angle  float64
		target string
		want   float64
	}{
		{180, RAD, math.Pi},
		{90, RAD, math.Pi / 2},
		{45, DEG, 45},
		{45, "unknown", 45},
	}
	for _, tt := range tests {
		if got := ConvertAngle(tt.angle, tt.target); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ConvertAngle(%v, %q) = %v, want %v", tt.angle, tt.target, got, tt.want)
		}
	}
}
