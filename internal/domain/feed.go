package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFeed marks a feed whose header or data row could not be
// located. Hard failure for the run; no partial record is built from it.
var ErrMalformedFeed = errors.New("malformed feed")

const commentMarker = "#"

// requiredDateColumns must all appear in a comment line for it to qualify
// as the column header. Year may appear as YY or YYYY depending on the
// station's file vintage.
var (
	requiredDateColumns = []string{"MM", "DD", "hh"}
	yearColumns         = []string{"YY", "YYYY"}
)

// Feed is one parsed station report: the header columns, the most recent
// data row, and the column-name index derived once from the header.
type Feed struct {
	Header []string
	Row    []string

	index map[string]int
}

// ParseFeed splits a raw report body into the authoritative header and the
// newest data row. The header is the first comment line carrying all the
// date columns; the data row is the first non-comment line at least as wide
// as the header (the feed orders observations newest first).
func ParseFeed(raw string) (*Feed, error) {
	var header []string
	var row []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, commentMarker) {
			if header != nil {
				continue
			}
			tokens := strings.Fields(strings.TrimPrefix(line, commentMarker))
			if isHeaderRow(tokens) {
				header = tokens
			}
			continue
		}

		if header == nil || row != nil {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) >= len(header) {
			row = tokens
		}
	}

	if header == nil {
		return nil, fmt.Errorf("%w: no header line with date columns", ErrMalformedFeed)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: no data row of at least %d tokens", ErrMalformedFeed, len(header))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	return &Feed{Header: header, Row: row, index: index}, nil
}

func isHeaderRow(tokens []string) bool {
	have := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		have[t] = true
	}
	for _, name := range requiredDateColumns {
		if !have[name] {
			return false
		}
	}
	for _, name := range yearColumns {
		if have[name] {
			return true
		}
	}
	return false
}

// lookup returns the raw token for the first alias present in the header,
// or ok=false when no alias resolves to a token within the row bounds.
func (f *Feed) lookup(aliases ...string) (string, bool) {
	for _, name := range aliases {
		pos, ok := f.index[name]
		if !ok || pos >= len(f.Row) {
			continue
		}
		return f.Row[pos], true
	}
	return "", false
}
