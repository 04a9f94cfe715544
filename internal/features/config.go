package features

// Config holds the tuning constants of the extraction algorithms.
// None of them are learned from data; they were picked for typical
// recreational activity tracks and may be recalibrated here.
type Config struct {
	// SmoothingWindow is the number of elevation samples averaged by the
	// moving-average filter.
	SmoothingWindow int

	// MinHorizontalMeters is the displacement below which a point is treated
	// as GPS jitter when evaluating elevation deltas.
	MinHorizontalMeters float64

	// MinElevationDeltaMeters is the dead zone for smoothed elevation deltas.
	MinElevationDeltaMeters float64

	// StoppedSpeedThresholdKmh is the speed at or below which a sample counts as stopped.
	StoppedSpeedThresholdKmh float64

	// MaxSpeedExtremePercentile is the fraction of the fastest samples ignored
	// when reporting the maximum speed.
	MaxSpeedExtremePercentile float64

	// MaxSpeedMinSamples is the number of moving samples required before a
	// maximum speed is reported at all.
	MaxSpeedMinSamples int

	// SinuosityEpsilonKm guards the sinuosity division.
	SinuosityEpsilonKm float64

	// StartAreaPrecision is the number of decimals kept in the start area key.
	StartAreaPrecision int
}

// DefaultConfig returns the constants the stored feature records are computed with.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow:           3,
		MinHorizontalMeters:       3.0,
		MinElevationDeltaMeters:   1.0,
		StoppedSpeedThresholdKmh:  1.0,
		MaxSpeedExtremePercentile: 0.05,
		MaxSpeedMinSamples:        20,
		SinuosityEpsilonKm:        1e-6,
		StartAreaPrecision:        3,
	}
}

// withDefaults fills zero values so a partially specified Config stays usable
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SmoothingWindow < 1 {
		c.SmoothingWindow = d.SmoothingWindow
	}
	if c.MinHorizontalMeters <= 0 {
		c.MinHorizontalMeters = d.MinHorizontalMeters
	}
	if c.MinElevationDeltaMeters <= 0 {
		c.MinElevationDeltaMeters = d.MinElevationDeltaMeters
	}
	if c.StoppedSpeedThresholdKmh <= 0 {
		c.StoppedSpeedThresholdKmh = d.StoppedSpeedThresholdKmh
	}
	if c.MaxSpeedExtremePercentile <= 0 || c.MaxSpeedExtremePercentile >= 1 {
		c.MaxSpeedExtremePercentile = d.MaxSpeedExtremePercentile
	}
	if c.MaxSpeedMinSamples < 1 {
		c.MaxSpeedMinSamples = d.MaxSpeedMinSamples
	}
	if c.SinuosityEpsilonKm <= 0 {
		c.SinuosityEpsilonKm = d.SinuosityEpsilonKm
	}
	if c.StartAreaPrecision < 0 {
		c.StartAreaPrecision = d.StartAreaPrecision
	}
	return c
}
