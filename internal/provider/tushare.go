package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	tushareCurveCode = "1001.CB" // CN government bond yield curve
	tushareCurveTerm = 10.0
)

// Tushare fetches the CN 10Y yield from the Tushare Pro bond yield curve
// API (yc_cb). Requires an account token.
type Tushare struct {
	BaseURL string
	token   string
	client  *http.Client
}

func NewTushare(token string) *Tushare {
	return &Tushare{
		BaseURL: "https://api.tushare.pro",
		token:   token,
		client:  newHTTPClient(),
	}
}

func (p *Tushare) Name() string {
	return "tushare"
}

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

func (p *Tushare) Latest(ctx context.Context) (Reading, error) {
	reading, err := p.latest(ctx)
	if err != nil {
		return Reading{}, &FetchError{Source: p.Name(), Err: err}
	}
	return reading, nil
}

func (p *Tushare) latest(ctx context.Context) (Reading, error) {
	now := time.Now().UTC()
	payload := tushareRequest{
		APIName: "yc_cb",
		Token:   p.token,
		Params: map[string]string{
			"ts_code":    tushareCurveCode,
			"curve_type": "0",
			"start_date": now.AddDate(0, 0, -30).Format("20060102"),
			"end_date":   now.Format("20060102"),
		},
		Fields: "trade_date,curve_term,yield",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Reading{}, errors.Wrap(err, "could not encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Reading{}, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Reading{}, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var response tushareResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Reading{}, errors.Wrap(err, "could not decode response")
	}
	if response.Code != 0 {
		return Reading{}, errors.Errorf("api error %d: %s", response.Code, response.Msg)
	}

	idx := make(map[string]int, len(response.Data.Fields))
	for i, field := range response.Data.Fields {
		idx[field] = i
	}
	for _, field := range []string{"trade_date", "curve_term", "yield"} {
		if _, ok := idx[field]; !ok {
			return Reading{}, errors.Errorf("missing field %s in response", field)
		}
	}

	var (
		best  Reading
		found bool
	)
	for _, item := range response.Data.Items {
		if len(item) < len(response.Data.Fields) {
			continue
		}
		term, ok := toFloat(item[idx["curve_term"]])
		if !ok || term != tushareCurveTerm {
			continue
		}
		value, ok := toFloat(item[idx["yield"]])
		if !ok {
			continue
		}
		date, ok := parseDate(item[idx["trade_date"]], "20060102", "2006-01-02")
		if !ok {
			continue
		}
		if !found || date.After(best.Date) {
			best = Reading{Value: value, Date: date, Source: p.Name()}
			found = true
		}
	}
	if !found {
		return Reading{}, errors.New("no 10y row in yield curve response")
	}
	return best, nil
}
