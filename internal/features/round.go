package features

import "math"

// round rounds half away from zero to the given number of decimals.
// Stored records depend on this being deterministic across runs.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
