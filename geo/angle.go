package geo

import "math"

// MaxMicroDegrees is the largest magnitude a valid Angle can hold: ±180°.
const MaxMicroDegrees = 180_000_000

// Angle is a fixed-precision angular value, counted in micro-degrees
// (10⁻⁶ of a degree). The representation is exact for every coordinate that
// OSM can express, so equality on Angle is meaningful.
type Angle int32

// AngleFromDegrees converts a floating-point degree value, rounding to the
// nearest micro-degree.
func AngleFromDegrees(degrees float64) Angle {
	return Angle(math.Round(degrees * 1e6))
}

// AngleFromMicroDegrees builds an Angle from a raw micro-degree count.
func AngleFromMicroDegrees(microDegrees int32) Angle {
	return Angle(microDegrees)
}

// Degrees returns the angle as floating-point degrees.
func (a Angle) Degrees() float64 {
	return float64(a) / 1e6
}

// MicroDegrees returns the raw micro-degree count.
func (a Angle) MicroDegrees() int32 {
	return int32(a)
}

// Radians returns the angle as floating-point radians.
func (a Angle) Radians() float64 {
	return float64(a) / 1e6 * math.Pi / 180
}
