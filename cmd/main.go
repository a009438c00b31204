package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"macro-watcher-bot/config"
	"macro-watcher-bot/internal/chart"
	"macro-watcher-bot/internal/provider"
	"macro-watcher-bot/internal/telegram"
	"macro-watcher-bot/internal/watcher"
)

const (
	defaultBrentThreshold = 70.0
	defaultCN10YThreshold = 1.85
)

type WatcherMetrics struct {
	RunsTotal    prometheus.Counter
	AlertsSent   prometheus.Counter
	FetchErrors  prometheus.Counter
	NotifyErrors prometheus.Counter
	LastReading  prometheus.Gauge
}

var (
	metrics  = NewWatcherMetrics()
	runMutex sync.Mutex
)

func init() {
	_ = godotenv.Load()
	config.InitConfig()
	setupLogging()
}

func NewWatcherMetrics() *WatcherMetrics {
	metrics := &WatcherMetrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrowatch",
			Subsystem: "watcher",
			Name:      "runs",
			Help:      "The total number of watcher runs",
		}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrowatch",
			Subsystem: "watcher",
			Name:      "alerts_sent",
			Help:      "The total number of alerts delivered to Telegram",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrowatch",
			Subsystem: "watcher",
			Name:      "fetch_errors",
			Help:      "The total number of runs that failed fetching the indicator",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "macrowatch",
			Subsystem: "watcher",
			Name:      "notify_errors",
			Help:      "The total number of runs that failed delivering the alert",
		}),
		LastReading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "macrowatch",
			Subsystem: "watcher",
			Name:      "last_reading",
			Help:      "The most recently fetched indicator value",
		}),
	}

	prometheus.MustRegister(metrics.RunsTotal)
	prometheus.MustRegister(metrics.AlertsSent)
	prometheus.MustRegister(metrics.FetchErrors)
	prometheus.MustRegister(metrics.NotifyErrors)
	prometheus.MustRegister(metrics.LastReading)

	return metrics
}

func main() {
	w, err := buildWatcher()
	if err != nil {
		log.Fatalf("Failed to configure watcher: %v", err)
	}

	interval := config.GetInt("poll_interval")
	if interval <= 0 {
		os.Exit(runOnce(w))
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	go func() {
		for {
			runMutex.Lock()
			runOnce(w)
			runMutex.Unlock()
			time.Sleep(time.Duration(interval) * time.Second)
		}
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

// runOnce performs one watcher pass and returns the process exit code:
// 0 success, 1 fetch failure, 2 notify failure.
func runOnce(w watcher.Runner) int {
	metrics.RunsTotal.Inc()

	outcome, err := w.Run(context.Background())
	if err != nil {
		var notifyErr *watcher.NotifyError
		if errors.As(err, &notifyErr) {
			metrics.NotifyErrors.Inc()
			log.Errorf("Notification failed: %v", err)
			return 2
		}
		metrics.FetchErrors.Inc()
		log.Errorf("Fetch failed: %v", err)
		return 1
	}

	metrics.LastReading.Set(outcome.Reading.Value)
	if outcome.Alerted {
		metrics.AlertsSent.Inc()
	}
	return 0
}

func buildWatcher() (watcher.Runner, error) {
	notifier, err := buildNotifier()
	if err != nil {
		return nil, err
	}

	name := config.GetString("watcher")
	switch name {
	case "brent":
		return &watcher.Brent{
			Series:       provider.NewYahoo(),
			Symbol:       config.GetString("symbol"),
			Threshold:    resolveThreshold(name),
			Days:         config.GetInt("consecutive_days"),
			LookbackDays: config.GetInt("lookback_days"),
			Notifier:     notifier,
			RenderChart:  chart.DailyCloses,
		}, nil
	case "cn10y":
		p, err := buildCN10YProvider()
		if err != nil {
			return nil, err
		}
		return &watcher.CN10Y{
			Provider:  p,
			Threshold: resolveThreshold(name),
			Notifier:  notifier,
		}, nil
	}
	return nil, fmt.Errorf("unknown watcher %q", name)
}

func buildNotifier() (*telegram.Bot, error) {
	token := config.GetString("telegram_bot_token")
	chatID := config.GetString("telegram_chat_id")
	if token == "" || chatID == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatID, err)
	}

	return telegram.NewBot(telegram.BotConfig{
		Token:  token,
		ChatID: id,
		Debug:  config.GetBool("debug"),
	})
}

func buildCN10YProvider() (provider.Provider, error) {
	teKey := config.GetString("te_api_key")
	tushareToken := config.GetString("tushare_token")

	selected := config.GetString("cn10y_provider")
	switch selected {
	case "tradingeconomics":
		return provider.NewTradingEconomics(teKey), nil
	case "tushare":
		if tushareToken == "" {
			return nil, errors.New("TUSHARE_TOKEN must be set for the tushare provider")
		}
		return provider.NewTushare(tushareToken), nil
	case "eastmoney":
		return provider.NewEastmoney(), nil
	case "auto":
		providers := []provider.Provider{provider.NewTradingEconomics(teKey)}
		if tushareToken != "" {
			providers = append(providers, provider.NewTushare(tushareToken))
		}
		providers = append(providers, provider.NewEastmoney())
		return provider.NewChain(providers...), nil
	}
	return nil, fmt.Errorf("unknown cn10y provider %q", selected)
}

// resolveThreshold falls back to the per-watcher default when THRESHOLD
// is not set: 70 for brent closes in USD, 1.85 for the cn10y yield.
func resolveThreshold(watcherName string) float64 {
	if config.IsSet("threshold") {
		return config.GetFloat64("threshold")
	}
	if watcherName == "brent" {
		return defaultBrentThreshold
	}
	return defaultCN10YThreshold
}

func setupLogging() {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting macro watcher...")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}
