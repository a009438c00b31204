package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("watcher", "WATCHER")
		viper.BindEnv("threshold", "THRESHOLD")
		viper.BindEnv("symbol", "SYMBOL")
		viper.BindEnv("consecutive_days", "CONSECUTIVE_DAYS")
		viper.BindEnv("lookback_days", "LOOKBACK_DAYS")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID")
		viper.BindEnv("cn10y_provider", "CN10Y_PROVIDER")
		viper.BindEnv("te_api_key", "TE_API_KEY")
		viper.BindEnv("tushare_token", "TUSHARE_TOKEN")
		viper.BindEnv("poll_interval", "POLL_INTERVAL")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("debug", "DEBUG")

		viper.SetDefault("watcher", "cn10y")
		viper.SetDefault("symbol", "BZ=F")
		viper.SetDefault("consecutive_days", 5)
		viper.SetDefault("lookback_days", 40)
		viper.SetDefault("cn10y_provider", "auto")
		viper.SetDefault("te_api_key", "guest:guest")
		viper.SetDefault("poll_interval", 0)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("debug", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetFloat64(key string) float64 {
	InitConfig()
	return viper.GetFloat64(key)
}

// IsSet reports whether the key has a non-empty value. THRESHOLD carries no
// viper default because each watcher resolves its own.
func IsSet(key string) bool {
	InitConfig()
	return viper.GetString(key) != ""
}
