package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// DefaultTimeLockKey is the time lock duration applied to swaps initiated
	// without an explicit one
	DefaultTimeLockKey = "DEFAULT_TIMELOCK"
	// WebhookRequestTimeoutKey is the timeout in seconds for delivering a
	// notification to a webhook endpoint
	WebhookRequestTimeoutKey = "WEBHOOK_REQUEST_TIMEOUT"
	// WebhookRateLimitKey is the max number of webhook notifications
	// delivered per second
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"
	// EnableProfilerKey enables periodic dumps of memory and prometheus
	// statistics that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines the interval in seconds between statistics
	// dumps
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	// DBTypeBadger makes the daemon persist its state on disk.
	DBTypeBadger = "badger"
	// DBTypeInMemory makes the daemon hold its state in memory, gone at
	// shutdown. Useful for testing.
	DBTypeInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("htlx-daemon", false)

var supportedDbTypes = map[string]struct{}{
	DBTypeBadger:   {},
	DBTypeInMemory: {},
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("HTLX")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBTypeBadger)
	vip.SetDefault(DefaultTimeLockKey, 24*time.Hour)
	vip.SetDefault(WebhookRequestTimeoutKey, 15)
	vip.SetDefault(WebhookRateLimitKey, 20)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := supportedDbTypes[dbType]; !ok {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBTypeBadger, DBTypeInMemory,
		)
	}

	if GetDuration(DefaultTimeLockKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", DefaultTimeLockKey)
	}

	if GetInt(WebhookRequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", WebhookRequestTimeoutKey)
	}

	if GetInt(WebhookRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", WebhookRateLimitKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}

	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
