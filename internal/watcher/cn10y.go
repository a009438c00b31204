package watcher

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"macro-watcher-bot/internal/provider"
	"macro-watcher-bot/lib/helpers"
)

// CN10Y alerts when the China 10Y government bond yield closes at or
// above the threshold. Stateless: while the condition holds, every run
// re-alerts.
type CN10Y struct {
	Provider  provider.Provider
	Threshold float64
	Notifier  Notifier
}

func (w *CN10Y) Run(ctx context.Context) (Outcome, error) {
	reading, err := w.Provider.Latest(ctx)
	if err != nil {
		return Outcome{}, err
	}

	log.Infof("cn10y close (%s): %.3f%%, threshold %.2f%% [%s]",
		helpers.FormatDate(reading.Date), reading.Value, w.Threshold, reading.Source)

	if reading.Value < w.Threshold {
		log.Info("below threshold, no alert")
		return Outcome{Reading: reading}, nil
	}

	msg := fmt.Sprintf(
		"🇨🇳 *China 10Y Government Bond*\n%s: close %.3f%% ≥ threshold %.2f%%\nSource: %s",
		helpers.FormatDate(reading.Date), reading.Value, w.Threshold, reading.Source,
	)
	if err := w.Notifier.SendMessage(msg); err != nil {
		return Outcome{Reading: reading}, &NotifyError{Err: err}
	}
	log.Info("alert sent")
	return Outcome{Reading: reading, Alerted: true}, nil
}
