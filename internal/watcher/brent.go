package watcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"macro-watcher-bot/internal/provider"
	"macro-watcher-bot/lib/helpers"
)

// ChartRenderer renders the alert chart attachment. Nil disables it.
type ChartRenderer func(symbol string, closes []provider.Close, threshold float64) ([]byte, error)

// Brent alerts the first time the daily close has stayed above the
// threshold for Days consecutive business days. A streak that already
// qualified on the previous session does not re-alert.
type Brent struct {
	Series       provider.SeriesProvider
	Symbol       string
	Threshold    float64
	Days         int
	LookbackDays int
	Notifier     Notifier
	RenderChart  ChartRenderer
}

func (w *Brent) Run(ctx context.Context) (Outcome, error) {
	closes, err := w.Series.DailyCloses(ctx, w.Symbol, w.LookbackDays)
	if err != nil {
		return Outcome{}, err
	}
	if len(closes) == 0 {
		return Outcome{}, &provider.FetchError{Source: w.Series.Name(), Err: errors.New("empty daily series")}
	}

	latest := closes[len(closes)-1]
	reading := provider.Reading{Value: latest.Value, Date: latest.Date, Source: w.Series.Name()}

	triggered, window := streakJustStarted(closes, w.Threshold, w.Days)
	if !triggered {
		log.Infof("no new streak: latest close (%s) %s, threshold %s",
			helpers.FormatDate(latest.Date),
			helpers.FormatUSD(latest.Value),
			helpers.FormatUSD(w.Threshold))
		return Outcome{Reading: reading}, nil
	}

	msg := w.alertMessage(window)
	if err := w.notify(closes, msg); err != nil {
		return Outcome{Reading: reading}, &NotifyError{Err: err}
	}
	log.Info("alert sent")
	return Outcome{Reading: reading, Alerted: true}, nil
}

func (w *Brent) alertMessage(window []provider.Close) string {
	var lines strings.Builder
	for _, c := range window {
		fmt.Fprintf(&lines, "\n- %s: %s", helpers.FormatDate(c.Date), helpers.FormatUSD(c.Value))
	}
	return fmt.Sprintf(
		"🛢 *Brent Watcher*\n%d consecutive sessions closed above %s (%s → %s):%s\n\nSymbol: `%s` (Yahoo Finance)",
		w.Days,
		helpers.FormatUSD(w.Threshold),
		helpers.FormatDate(window[0].Date),
		helpers.FormatDate(window[len(window)-1].Date),
		lines.String(),
		w.Symbol,
	)
}

// notify attaches the closes chart when rendering succeeds; a chart
// failure must not suppress the alert itself.
func (w *Brent) notify(closes []provider.Close, msg string) error {
	if w.RenderChart != nil {
		png, err := w.RenderChart(w.Symbol, closes, w.Threshold)
		if err != nil {
			log.Warnf("chart rendering failed, sending plain alert: %v", err)
		} else {
			return w.Notifier.SendPhoto(png, msg)
		}
	}
	return w.Notifier.SendMessage(msg)
}
