package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"macro-watcher-bot/internal/provider"
)

func TestDailyCloses_RendersPNG(t *testing.T) {
	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	closes := make([]provider.Close, 0, 5)
	for i, v := range []float64{69, 71, 72, 73, 75} {
		closes = append(closes, provider.Close{Date: day.AddDate(0, 0, i), Value: v})
	}

	png, err := DailyCloses("BZ=F", closes, 70)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	require.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestDailyCloses_TooFewPoints(t *testing.T) {
	closes := []provider.Close{{Date: time.Now(), Value: 71}}

	_, err := DailyCloses("BZ=F", closes, 70)
	require.Error(t, err)
}
