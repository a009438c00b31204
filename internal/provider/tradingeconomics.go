package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TradingEconomics fetches the CN 10Y government bond yield from the
// TradingEconomics API. Several endpoints expose the series with slightly
// different record shapes, so they are tried in order.
type TradingEconomics struct {
	BaseURL    string
	credential string
	client     *http.Client
}

// NewTradingEconomics creates the provider. An empty credential falls back
// to the public guest:guest access.
func NewTradingEconomics(credential string) *TradingEconomics {
	if credential == "" {
		credential = "guest:guest"
	}
	return &TradingEconomics{
		BaseURL:    "https://api.tradingeconomics.com",
		credential: credential,
		client:     newHTTPClient(),
	}
}

func (p *TradingEconomics) Name() string {
	return "tradingeconomics"
}

func (p *TradingEconomics) Latest(ctx context.Context) (Reading, error) {
	paths := []string{
		"/markets/bond/china:10y",
		"/historical/country/China?indicator=" + url.QueryEscape("Government Bond 10Y"),
		"/historical/markets/bond/china:10y",
	}

	var lastErr error
	for _, path := range paths {
		reading, err := p.fetch(ctx, path)
		if err != nil {
			log.Debugf("tradingeconomics: %s failed: %v", path, err)
			lastErr = err
			continue
		}
		return reading, nil
	}
	return Reading{}, &FetchError{Source: p.Name(), Err: lastErr}
}

func (p *TradingEconomics) fetch(ctx context.Context, path string) (Reading, error) {
	sep := "?"
	if u, err := url.Parse(path); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	endpoint := fmt.Sprintf("%s%s%sc=%s&format=json", p.BaseURL, path, sep, url.QueryEscape(p.credential))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Reading{}, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Reading{}, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reading{}, errors.Wrap(err, "could not read response")
	}
	if resp.StatusCode != http.StatusOK {
		return Reading{}, errors.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 120))
	}

	records, err := decodeRecords(body)
	if err != nil {
		return Reading{}, err
	}

	var (
		best  Reading
		found bool
	)
	for _, rec := range records {
		value, date, ok := parseTERecord(rec)
		if !ok {
			continue
		}
		if !found || date.After(best.Date) {
			best = Reading{Value: value, Date: date, Source: p.Name()}
			found = true
		}
	}
	if !found {
		return Reading{}, errors.New("no parsable record in response")
	}
	return best, nil
}

// decodeRecords accepts both a JSON array of records and a single record
// object, which the markets snapshot endpoint returns.
func decodeRecords(body []byte) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}
	var single map[string]interface{}
	if err := json.Unmarshal(body, &single); err == nil {
		return []map[string]interface{}{single}, nil
	}
	return nil, errors.Errorf("could not decode response: %s", truncate(body, 120))
}

func parseTERecord(rec map[string]interface{}) (float64, time.Time, bool) {
	var value float64
	var ok bool
	for _, key := range []string{"Close", "close", "Value", "value", "Price", "price", "Last", "LatestValue"} {
		if raw, exists := rec[key]; exists {
			if value, ok = toFloat(raw); ok {
				break
			}
		}
	}
	if !ok {
		return 0, time.Time{}, false
	}

	date := time.Now().UTC()
	for _, key := range []string{"Date", "date", "DateTime", "Datetime", "timestamp"} {
		if raw, exists := rec[key]; exists {
			if d, parsed := parseDate(raw,
				"2006-01-02T15:04:05.999",
				"2006-01-02T15:04:05",
				time.RFC3339,
				"2006-01-02",
			); parsed {
				date = d
				break
			}
		}
	}
	return value, date, true
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
