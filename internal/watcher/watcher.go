package watcher

import (
	"context"

	"macro-watcher-bot/internal/provider"
)

// Notifier delivers alert messages. *telegram.Bot is the production
// implementation.
type Notifier interface {
	SendMessage(text string) error
	SendPhoto(png []byte, caption string) error
}

// Outcome summarizes a single watcher run.
type Outcome struct {
	Reading provider.Reading
	Alerted bool
}

// Runner performs one fetch, evaluate, notify pass.
type Runner interface {
	Run(ctx context.Context) (Outcome, error)
}

// NotifyError reports a Telegram delivery that failed after the alert
// condition was met.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return "notify: " + e.Err.Error()
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
