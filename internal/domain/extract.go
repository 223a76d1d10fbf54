package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingTimestamp marks a row whose year, month, day, or hour could not
// be resolved. A report without a trustworthy timestamp is never returned,
// so this fails the whole run.
var ErrMissingTimestamp = errors.New("missing timestamp")

// missingToken is the NDBC reserved sentinel for a value that was not
// measured or not reported.
const missingToken = "MM"

// Ordered column-name aliases per logical field, first match wins. The
// legacy names (WD, BAR) still appear on older station files.
var (
	yearAliases    = []string{"YY", "YYYY"}
	monthAliases   = []string{"MM"}
	dayAliases     = []string{"DD"}
	hourAliases    = []string{"hh"}
	minuteAliases  = []string{"mm"}
	windDirAliases = []string{"WDIR", "WD"}
	windSpdAliases = []string{"WSPD"}
	gustAliases    = []string{"GST"}
	waveHtAliases  = []string{"WVHT"}
	domPdAliases   = []string{"DPD"}
	avgPdAliases   = []string{"APD"}
	swellAliases   = []string{"MWD"}
	presAliases    = []string{"PRES", "BAR"}
	airTmpAliases  = []string{"ATMP"}
	waterAliases   = []string{"WTMP"}
)

// BuildObservation extracts, normalizes, and stamps the most recent row of
// a parsed feed. The timestamp columns are required; every measurement is
// optional and comes back nil when sentinel-valued or absent.
func BuildObservation(feed *Feed, stationID, stationName, source string) (Observation, error) {
	year, err := requiredInt(feed, "year", yearAliases)
	if err != nil {
		return Observation{}, err
	}
	month, err := requiredInt(feed, "month", monthAliases)
	if err != nil {
		return Observation{}, err
	}
	day, err := requiredInt(feed, "day", dayAliases)
	if err != nil {
		return Observation{}, err
	}
	hour, err := requiredInt(feed, "hour", hourAliases)
	if err != nil {
		return Observation{}, err
	}
	minute := optionalInt(feed, minuteAliases) // minute column absent on some stations

	o := Observation{
		StationID:   stationID,
		StationName: stationName,
		ObservedAt:  observationTime(year, month, day, hour, minute),
		Source:      source,
		RetrievedAt: clock.Now().UTC(),
	}

	o.WindDirDeg = measurement(feed, windDirAliases)
	o.WindKts = convert(measurement(feed, windSpdAliases), MetersPerSecondToKnots)
	o.WindGustKts = convert(measurement(feed, gustAliases), MetersPerSecondToKnots)

	o.WaveHeightM = measurement(feed, waveHtAliases)
	o.WaveHeightFt = convert(o.WaveHeightM, MetersToFeet)
	o.DominantPeriodSec = measurement(feed, domPdAliases)
	o.AveragePeriodSec = measurement(feed, avgPdAliases)
	o.SwellDirDeg = measurement(feed, swellAliases)

	o.PressureHpa = measurement(feed, presAliases)
	o.AirTempC = measurement(feed, airTmpAliases)
	o.AirTempF = convert(o.AirTempC, CelsiusToFahrenheit)
	o.WaterTempC = measurement(feed, waterAliases)
	o.WaterTempF = convert(o.WaterTempC, CelsiusToFahrenheit)

	return o, nil
}

// measurement resolves a logical field to the first matching column alias
// and parses its token, honoring the missing-value sentinels. Nil means
// unknown; zero is a real reading.
func measurement(feed *Feed, aliases []string) *float64 {
	tok, ok := feed.lookup(aliases...)
	if !ok || isMissingSentinel(tok) {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return &v
}

func requiredInt(feed *Feed, field string, aliases []string) (int, error) {
	tok, ok := feed.lookup(aliases...)
	if !ok || isMissingSentinel(tok) {
		return 0, fmt.Errorf("%w: %s column unresolved", ErrMissingTimestamp, field)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q: %v", ErrMissingTimestamp, field, tok, err)
	}
	return n, nil
}

func optionalInt(feed *Feed, aliases []string) int {
	tok, ok := feed.lookup(aliases...)
	if !ok || isMissingSentinel(tok) {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0
	}
	return n
}

// isMissingSentinel reports whether a token encodes "not reported": the
// exact MM token, or an all-nines placeholder like 99, 999, or 999.0. The
// integer part must be the digit 9 repeated at least twice, so single-digit
// readings such as 9 or 9.5 stay legitimate values. A fraction, when
// present, must itself be all nines or all zeros (the feed pads sentinels
// as 99.0, 999.00).
func isMissingSentinel(tok string) bool {
	if tok == missingToken {
		return true
	}
	intPart, frac, hasFrac := strings.Cut(tok, ".")
	if len(intPart) < 2 || !repeats(intPart, '9') {
		return false
	}
	if !hasFrac {
		return true
	}
	return repeats(frac, '9') || repeats(frac, '0')
}

func repeats(s string, digit byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != digit {
			return false
		}
	}
	return true
}

func convert(v *float64, f func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	out := f(*v)
	return &out
}
