package helpers

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatUSD renders a dollar amount with a US thousands separator and
// two decimals.
func FormatUSD(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("$%.2f", v)
}

// FormatDate renders a calendar date the way alert messages show it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
