package provider

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// cn10yColumn is the Eastmoney column id of the CN 10Y treasury yield in
// the RPTA_WEB_TREASURYYIELD report.
const cn10yColumn = "EMM00166462"

// Eastmoney fetches the CN 10Y yield from the keyless Eastmoney data
// center API, the public aggregator fallback.
type Eastmoney struct {
	BaseURL string
	client  *http.Client
}

func NewEastmoney() *Eastmoney {
	return &Eastmoney{
		BaseURL: "https://datacenter.eastmoney.com",
		client:  newHTTPClient(),
	}
}

func (p *Eastmoney) Name() string {
	return "eastmoney"
}

type eastmoneyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  *struct {
		Data []map[string]interface{} `json:"data"`
	} `json:"result"`
}

func (p *Eastmoney) Latest(ctx context.Context) (Reading, error) {
	reading, err := p.latest(ctx)
	if err != nil {
		return Reading{}, &FetchError{Source: p.Name(), Err: err}
	}
	return reading, nil
}

func (p *Eastmoney) latest(ctx context.Context) (Reading, error) {
	endpoint := p.BaseURL + "/api/data/get?type=RPTA_WEB_TREASURYYIELD&sty=ALL&st=SOLAR_DATE&sr=-1&p=1&ps=20"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Reading{}, errors.Wrap(err, "could not build request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Reading{}, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var response eastmoneyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Reading{}, errors.Wrap(err, "could not decode response")
	}
	if !response.Success || response.Result == nil {
		return Reading{}, errors.Errorf("api error: %s", response.Message)
	}

	// Rows come back newest first; take the first one with a 10y value.
	for _, row := range response.Result.Data {
		value, ok := toFloat(row[cn10yColumn])
		if !ok {
			continue
		}
		date, ok := parseDate(row["SOLAR_DATE"], "2006-01-02 15:04:05", "2006-01-02")
		if !ok {
			continue
		}
		return Reading{Value: value, Date: date, Source: p.Name()}, nil
	}
	return Reading{}, errors.New("no row with a 10y yield in response")
}
