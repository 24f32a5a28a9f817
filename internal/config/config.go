package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		if root != "" {
			_ = godotenv.Load(filepath.Join(root, ".env"))
		}

		setDefaults()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error reading test config file", "error", err)
			}
		}
	})
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_header_timeout", "15s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "30s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("cache.expiration", "24h")
	viper.SetDefault("openmeteo.geocoding_url", "https://geocoding-api.open-meteo.com/v1/search")
	viper.SetDefault("openmeteo.forecast_url", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("openmeteo.timeout", "10s")
	viper.SetDefault("openmeteo.rate", 5)
	viper.SetDefault("openmeteo.burst", 10)
	viper.SetDefault("dashboard.default_location", "London")
	viper.SetDefault("session.idle_timeout", "30m")
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func getDuration(key string, fallback time.Duration) time.Duration {
	initConfig()
	d := viper.GetDuration(key)
	if d <= 0 {
		return fallback
	}
	return d
}

func GetGeocodingURL() string {
	initConfig()
	return viper.GetString("openmeteo.geocoding_url")
}

func GetForecastURL() string {
	initConfig()
	return viper.GetString("openmeteo.forecast_url")
}

// GetOpenMeteoTimeout is the HTTP client timeout for Open-Meteo calls.
func GetOpenMeteoTimeout() time.Duration {
	return getDuration("openmeteo.timeout", 10*time.Second)
}

// GetOpenMeteoRateConfig returns the outbound request rate (per second) and burst.
func GetOpenMeteoRateConfig() (rate float64, burst int) {
	return getRate("openmeteo", 5, 10)
}

// getRate reads <prefix>.rate and <prefix>.burst, replacing non-positive
// values with the fallbacks.
func getRate(prefix string, fallbackRate float64, fallbackBurst int) (float64, int) {
	initConfig()
	rate := viper.GetFloat64(prefix + ".rate")
	if rate <= 0 {
		rate = fallbackRate
	}
	burst := viper.GetInt(prefix + ".burst")
	if burst <= 0 {
		burst = fallbackBurst
	}
	return rate, burst
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetCacheExpiration returns how long geocoding results stay cached.
func GetCacheExpiration() time.Duration {
	return getDuration("cache.expiration", 24*time.Hour)
}

// GetServerTimeout returns one of the server.* timeouts, e.g. "read_timeout".
func GetServerTimeout(key string) time.Duration {
	return getDuration("server."+key, 15*time.Second)
}

// GetDefaultLocation is the place shown when geolocation is unavailable.
func GetDefaultLocation() string {
	initConfig()
	loc := strings.TrimSpace(viper.GetString("dashboard.default_location"))
	if loc == "" {
		return "London"
	}
	return loc
}

// GetSessionIdleTimeout is how long an untouched dashboard session is kept.
func GetSessionIdleTimeout() time.Duration {
	return getDuration("session.idle_timeout", 30*time.Minute)
}

func GetTestRedisMockPort() string {
	initConfig()
	return viper.GetString("test.redis_mock_port")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout is how long an idle limiter bucket is kept.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst of the per-IP bucket.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	return getRate("rate_limiter.global", 60, 30)
}

// GetParamRateLimiterConfig returns the per-minute rate and burst of the per-query bucket.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	return getRate("rate_limiter.param", 10, 5)
}
