// Package units provides shared constants and conversions for energy and
// angle units
package units

import "math"

// Energy unit constants
const (
	EV  = "eV"
	MEV = "meV"
)

// Angle unit constants
const (
	DEG = "deg"
	RAD = "rad"
)

// ValidEnergyUnits contains all valid energy unit values
var ValidEnergyUnits = []string{EV, MEV}

// ValidAngleUnits contains all valid angle unit values
var ValidAngleUnits = []string{DEG, RAD}

// IsValidEnergyUnit checks if the given unit is in the list of valid energy units
func IsValidEnergyUnit(unit string) bool {
	for _, validUnit := range ValidEnergyUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// IsValidAngleUnit checks if the given unit is in the list of valid angle units
func IsValidAngleUnit(unit string) bool {
	for _, validUnit := range ValidAngleUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ConvertEnergy converts an energy from electronvolts to the target units.
// SES files store kinetic energy in eV.
func ConvertEnergy(energyEV float64, targetUnits string) float64 {
	switch targetUnits {
	case MEV:
		return energyEV * 1000.0
	case EV:
		return energyEV
	default:
		return energyEV // default to eV if unknown unit
	}
}

// ConvertAngle converts an angle from degrees to the target units.
// SES headers store deflection angles in degrees.
func ConvertAngle(angleDeg float64, targetUnits string) float64 {
	switch targetUnits {
	case RAD:
		return angleDeg * math.Pi / 180.0
	case DEG:
		return angleDeg
	default:
		return angleDeg // default to degrees if unknown unit
	}
}
