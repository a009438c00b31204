package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTushare(url, token string) *Tushare {
	p := NewTushare(token)
	p.BaseURL = url
	return p
}

func TestTushare_LatestTenYearRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req tushareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "yc_cb", req.APIName)
		require.Equal(t, "secret", req.Token)
		require.Equal(t, "1001.CB", req.Params["ts_code"])

		fmt.Fprint(w, `{"code":0,"msg":null,"data":{
			"fields":["trade_date","curve_term","yield"],
			"items":[
				["20260820",10,1.88],
				["20260821",5,1.50],
				["20260821",10,1.92]
			]
		}}`)
	}))
	defer server.Close()

	reading, err := newTestTushare(server.URL, "secret").Latest(context.Background())
	require.NoError(t, err)
	// Only 10y rows count; the most recent trade date wins.
	require.Equal(t, 1.92, reading.Value)
	require.Equal(t, "2026-08-21", reading.Date.Format("2006-01-02"))
	require.Equal(t, "tushare", reading.Source)
}

func TestTushare_RejectedTokenIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":2002,"msg":"token invalid","data":null}`)
	}))
	defer server.Close()

	_, err := newTestTushare(server.URL, "bad").Latest(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Contains(t, err.Error(), "token invalid")
}

func TestTushare_NoTenYearRowIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"msg":null,"data":{
			"fields":["trade_date","curve_term","yield"],
			"items":[["20260821",5,1.50]]
		}}`)
	}))
	defer server.Close()

	_, err := newTestTushare(server.URL, "secret").Latest(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
}
