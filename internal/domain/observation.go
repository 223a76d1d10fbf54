package domain

import (
	"fmt"
	"time"
)

// StaleAfter is the display-level freshness threshold: an observation older
// than this is flagged stale for consumers without invalidating any cache.
const StaleAfter = time.Hour

// Observation is the unit-normalized form of the most recent report row of
// one station. Optional measurements are nil when the feed carried a
// missing-value sentinel or the column was absent.
type Observation struct {
	StationID   string    `json:"station_id"`
	StationName string    `json:"station_name,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
	Source      string    `json:"source"` // candidate URL the feed was fetched from

	WindDirDeg  *float64 `json:"wind_dir_deg,omitempty"`
	WindKts     *float64 `json:"wind_kts,omitempty"`
	WindGustKts *float64 `json:"wind_gust_kts,omitempty"`

	WaveHeightFt      *float64 `json:"wave_height_ft,omitempty"`
	WaveHeightM       *float64 `json:"wave_height_m,omitempty"`
	DominantPeriodSec *float64 `json:"dominant_period_sec,omitempty"`
	AveragePeriodSec  *float64 `json:"average_period_sec,omitempty"`
	SwellDirDeg       *float64 `json:"swell_dir_deg,omitempty"`

	PressureHpa *float64 `json:"pressure_hpa,omitempty"`
	AirTempF    *float64 `json:"air_temp_f,omitempty"`
	AirTempC    *float64 `json:"air_temp_c,omitempty"`
	WaterTempF  *float64 `json:"water_temp_f,omitempty"`
	WaterTempC  *float64 `json:"water_temp_c,omitempty"`

	RetrievedAt time.Time `json:"retrieved_at"`
}

// Stale reports whether the observation is older than the given display
// threshold. Distinct from cache TTL: a stale observation is still served.
func (o Observation) Stale(threshold time.Duration) bool {
	if o.ObservedAt.IsZero() {
		return true
	}
	return clock.Now().Sub(o.ObservedAt) > threshold
}

// Warning is an advisory note that a normalized value fell outside its
// plausible physical range. Warnings accompany a successful report; they
// never reject or correct the value.
type Warning struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s=%g outside plausible range [%g, %g]", w.Field, w.Value, w.Min, w.Max)
}
