package domain

// Plausible physical ranges for normalized values. Out-of-range readings
// are reported as advisory warnings, never rejected or nulled: upstream
// data quality issues should be visible, not silently hidden.
var plausibleRanges = []struct {
	field string
	value func(Observation) *float64
	min   float64
	max   float64
}{
	{"wave_height_ft", func(o Observation) *float64 { return o.WaveHeightFt }, 0, 50},
	{"dominant_period_sec", func(o Observation) *float64 { return o.DominantPeriodSec }, 3, 30},
	{"average_period_sec", func(o Observation) *float64 { return o.AveragePeriodSec }, 3, 30},
	{"wind_kts", func(o Observation) *float64 { return o.WindKts }, 0, 100},
	{"wind_gust_kts", func(o Observation) *float64 { return o.WindGustKts }, 0, 100},
	{"wind_dir_deg", func(o Observation) *float64 { return o.WindDirDeg }, 0, 360},
	{"swell_dir_deg", func(o Observation) *float64 { return o.SwellDirDeg }, 0, 360},
	{"pressure_hpa", func(o Observation) *float64 { return o.PressureHpa }, 850, 1100},
	{"air_temp_f", func(o Observation) *float64 { return o.AirTempF }, -60, 140},
	{"water_temp_f", func(o Observation) *float64 { return o.WaterTempF }, 25, 110},
}

// ValidateObservation checks each present field against its plausible
// range and returns advisory warnings for the outliers. Unknown fields are
// skipped. Always returns successfully; warnings never fail a run.
func ValidateObservation(o Observation) []Warning {
	var warnings []Warning
	for _, r := range plausibleRanges {
		v := r.value(o)
		if v == nil {
			continue
		}
		if *v < r.min || *v > r.max {
			warnings = append(warnings, Warning{Field: r.field, Value: *v, Min: r.min, Max: r.max})
		}
	}
	return warnings
}
