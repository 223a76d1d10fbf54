package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestValidateObservation(t *testing.T) {
	t.Run("in-range observation yields no warnings", func(t *testing.T) {
		o := Observation{
			WaveHeightFt:      ptr(3.9),
			DominantPeriodSec: ptr(11),
			WindKts:           ptr(9.9),
			WindDirDeg:        ptr(270),
			PressureHpa:       ptr(1015.2),
			AirTempF:          ptr(60.1),
			WaterTempF:        ptr(58.6),
		}
		assert.Empty(t, ValidateObservation(o))
	})

	t.Run("unknown fields are skipped", func(t *testing.T) {
		assert.Empty(t, ValidateObservation(Observation{}))
	})

	t.Run("out-of-range values warn without being nulled", func(t *testing.T) {
		o := Observation{
			WaveHeightFt:      ptr(80),  // above 50 ft
			DominantPeriodSec: ptr(1),   // below 3 s
			PressureHpa:       ptr(700), // below 850 hPa
		}

		warnings := ValidateObservation(o)
		require.Len(t, warnings, 3)

		fields := make(map[string]Warning, len(warnings))
		for _, w := range warnings {
			fields[w.Field] = w
		}
		assert.Contains(t, fields, "wave_height_ft")
		assert.Contains(t, fields, "dominant_period_sec")
		assert.Contains(t, fields, "pressure_hpa")
		assert.Equal(t, 80.0, fields["wave_height_ft"].Value)

		// Advisory only: the observation itself is untouched.
		assert.Equal(t, 80.0, *o.WaveHeightFt)
	})

	t.Run("boundary values are in range", func(t *testing.T) {
		o := Observation{
			WaveHeightFt: ptr(50),
			WindKts:      ptr(0),
			WindDirDeg:   ptr(360),
		}
		assert.Empty(t, ValidateObservation(o))
	})

	t.Run("warning string names field and bounds", func(t *testing.T) {
		w := Warning{Field: "wind_kts", Value: 120, Min: 0, Max: 100}
		assert.Equal(t, "wind_kts=120 outside plausible range [0, 100]", w.String())
	})
}
