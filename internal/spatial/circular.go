package spatial

import "math"

// CyclicalEncode maps a value on a circle of the given period to its
// (sin, cos) pair, so the first and last positions of the cycle stay adjacent.
func CyclicalEncode(value, period float64) (float64, float64) {
	angle := 2 * math.Pi * (value / period)
	return math.Sin(angle), math.Cos(angle)
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
