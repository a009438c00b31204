package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// Yahoo fetches daily closes from the Yahoo Finance chart API.
type Yahoo struct {
	BaseURL string
	client  *http.Client
}

func NewYahoo() *Yahoo {
	return &Yahoo{
		BaseURL: "https://query1.finance.yahoo.com",
		client:  newHTTPClient(),
	}
}

func (p *Yahoo) Name() string {
	return "yahoo"
}

// DailyCloses retrieves up to lookbackDays of daily closes, widening the
// requested range when a narrower one comes back empty.
func (p *Yahoo) DailyCloses(ctx context.Context, symbol string, lookbackDays int) ([]Close, error) {
	ranges := []string{fmt.Sprintf("%dd", lookbackDays), "60d", "3mo"}

	var lastErr error
	for _, rng := range ranges {
		closes, err := p.fetchRange(ctx, symbol, rng)
		if err != nil {
			log.Debugf("yahoo: range %s failed: %v", rng, err)
			lastErr = err
			continue
		}
		if len(closes) == 0 {
			lastErr = errors.Errorf("empty daily series for range %s", rng)
			continue
		}
		return closes, nil
	}
	return nil, &FetchError{Source: p.Name(), Err: lastErr}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *Yahoo) fetchRange(ctx context.Context, symbol, rng string) ([]Close, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=history",
		p.BaseURL, url.PathEscape(symbol), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build chart request")
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "chart request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not decode chart response")
	}
	if payload.Chart.Error != nil {
		return nil, errors.Errorf("%s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, errors.New("no result in chart response")
	}

	result := payload.Chart.Result[0]
	var quote, adj []*float64
	if len(result.Indicators.Quote) > 0 {
		quote = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.Adjclose) > 0 {
		adj = result.Indicators.Adjclose[0].Adjclose
	}

	var closes []Close
	for i, ts := range result.Timestamp {
		v := pick(quote, i)
		if v == nil {
			v = pick(adj, i)
		}
		if v == nil {
			continue
		}
		closes = append(closes, Close{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Value: *v,
		})
	}
	return closes, nil
}

func pick(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
