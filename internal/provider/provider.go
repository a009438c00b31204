package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Reading is the latest value of a watched indicator as reported by one
// upstream source.
type Reading struct {
	Value  float64
	Date   time.Time
	Source string
}

// Close is a single daily closing value.
type Close struct {
	Date  time.Time
	Value float64
}

// Provider fetches the most recent reading of an indicator.
type Provider interface {
	Name() string
	Latest(ctx context.Context) (Reading, error)
}

// SeriesProvider fetches a window of daily closes for a symbol.
type SeriesProvider interface {
	Name() string
	DailyCloses(ctx context.Context, symbol string, lookbackDays int) ([]Close, error)
}

// FetchError reports an upstream source that was unreachable, rejected
// credentials, or returned data that could not be parsed.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 20 * time.Second}
}

// toFloat coerces the loosely typed values the upstream JSON payloads carry.
// Percent signs and thousands separators are stripped.
func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.NewReplacer("%", "", ",", "").Replace(t))
		if s == "" || strings.EqualFold(s, "nan") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func parseDate(v interface{}, layouts ...string) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
