package domain

import "time"

// Unit conversions are total functions applied only to resolved values;
// unknown (nil) measurements are never converted.

const (
	feetPerMeter      = 3.28084
	knotsPerMeterPerS = 1.94384
)

// MetersToFeet converts a length in meters to feet.
func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

// MetersPerSecondToKnots converts a speed in m/s to knots.
func MetersPerSecondToKnots(v float64) float64 {
	return v * knotsPerMeterPerS
}

// CelsiusToFahrenheit converts a temperature in °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// observationTime builds the UTC instant for a report row. Two-digit years
// are offset into the 2000s (the realtime feed began in 1996 but the
// two-digit form only survives on archive-era files).
func observationTime(year, month, day, hour, minute int) time.Time {
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}
