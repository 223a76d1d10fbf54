// Package domain models NOAA National Data Buoy Center (NDBC) station
// reports.
//
// # Data Source
//
// Observations come from the NDBC realtime text bulletins, available at
// https://www.ndbc.noaa.gov/data/realtime2/<STATION>.txt (and the 5-day
// variant under /data/5day2/). Each file holds recent observations for one
// station, newest row first, refreshed on a multi-minute cadence.
//
// # Feed Conventions
//
// Line structure:
//
//	Comment lines start with '#'. The first comment line whose tokens
//	include the date columns (YY MM DD hh) is the column header; a second
//	comment line repeats the columns as units (degT, m/s, sec, ...) and is
//	ignored. Data lines are whitespace-separated tokens aligned
//	positionally to the header.
//
// Column names:
//
//	NDBC renamed several columns over the years and older station files
//	still serve the legacy names, so each logical field carries an ordered
//	alias list: wind direction WDIR (legacy WD), pressure PRES (legacy
//	BAR), year YY or YYYY. The first alias present in the header wins.
//
// Missing values:
//
//	"MM" is the reserved not-reported token. Numeric placeholders use
//	all-nines values sized to the column width: "99", "999", "99.0",
//	"999.0". The all-nines rule requires the entire integer part to be
//	repeated nines, so "9.5" (a real 9.5 s average period) is never
//	treated as missing. Zero is a legitimate reading and round-trips
//	unchanged; no field is ever defaulted to zero.
//
// Units:
//
//	The feed is metric: wave heights in meters, wind in m/s, temperatures
//	in Celsius, pressure in hPa, directions in degrees true, periods in
//	seconds. Normalization converts lengths to feet, speeds to knots, and
//	temperatures to Fahrenheit while keeping the metric source values for
//	wave height and temperatures. Timestamps are UTC; two-digit years are
//	offset into the 2000s.
package domain
