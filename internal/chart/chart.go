package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"macro-watcher-bot/internal/provider"
	"macro-watcher-bot/lib/helpers"
)

var (
	seriesColor = drawing.Color{R: 0, G: 122, B: 255, A: 255}
	fillColor   = drawing.Color{R: 0, G: 122, B: 255, A: 25}
)

// DailyCloses renders a line chart of daily closes with the alert
// threshold overlaid as a dashed line.
func DailyCloses(symbol string, closes []provider.Close, threshold float64) ([]byte, error) {
	if len(closes) < 2 {
		return nil, errors.New("not enough closes to render a chart")
	}

	xs := make([]time.Time, len(closes))
	ys := make([]float64, len(closes))
	ts := make([]float64, len(closes))
	for i, c := range closes {
		xs[i] = c.Date
		ys[i] = c.Value
		ts[i] = threshold
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s daily close", symbol),
		Width:  1200,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatUSD(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    symbol,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: seriesColor,
					FillColor:   fillColor,
				},
			},
			chart.TimeSeries{
				Name:    "threshold",
				XValues: xs,
				YValues: ts,
				Style: chart.Style{
					StrokeColor:     drawing.ColorRed,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "could not render chart")
	}
	return buf.Bytes(), nil
}
