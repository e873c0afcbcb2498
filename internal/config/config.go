package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment and .env file.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

	AdminUsername string
	AdminPassword string

	// Remote exports used when a request does not upload files.
	HoursSourceURL string
	LeadsSourceURL string
	HoursSheet     string
	LeadsSheet     string
	FetchTimeout   time.Duration

	Cache     CacheConfig
	RateLimit RateLimitConfig

	Report ReportConfig
}

// CacheConfig selects where downloaded exports are cached.
type CacheConfig struct {
	Enabled       bool
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitConfig bounds report requests per client. Buckets live in the
// cache redis instance.
type RateLimitConfig struct {
	Enabled     bool
	ReportRate  float64
	ReportBurst int
}

// ReportConfig drives the batch daily report.
type ReportConfig struct {
	HoursPath   string
	LeadsPath   string
	OutputPath  string
	OutputSheet string
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:       getenv("APP_SERVICE", "payslip"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		HTTPPort:      getenv("PORT", "8080"),
		AdminUsername: strings.TrimSpace(getenv("ADMIN_USERNAME", "")),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),

		HoursSourceURL: strings.TrimSpace(getenv("HOURS_SOURCE_URL", "")),
		LeadsSourceURL: strings.TrimSpace(getenv("LEADS_SOURCE_URL", "")),
		HoursSheet:     strings.TrimSpace(getenv("HOURS_SHEET", "")),
		LeadsSheet:     strings.TrimSpace(getenv("LEADS_SHEET", "")),
		FetchTimeout:   getenvDuration("FETCH_TIMEOUT", 30*time.Second),

		Cache: CacheConfig{
			Enabled:       getenvBool("CACHE_ENABLED", true),
			Backend:       normalizeCacheBackend(getenv("CACHE_BACKEND", CacheBackendMemory)),
			TTL:           getenvDuration("CACHE_TTL", 5*time.Minute),
			RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("REDIS_DB", 0),
		},

		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", false),
			ReportRate:  getenvFloat("RATE_LIMIT_REPORT_RATE", 1),
			ReportBurst: getenvInt("RATE_LIMIT_REPORT_BURST", 10),
		},

		Report: ReportConfig{
			HoursPath:   getenv("REPORT_HOURS_PATH", "Payslip Draft.xlsx"),
			LeadsPath:   getenv("REPORT_LEADS_PATH", "Leads Bank.xlsx"),
			OutputPath:  getenv("REPORT_OUTPUT_PATH", "Payslip_Report.xlsx"),
			OutputSheet: getenv("REPORT_OUTPUT_SHEET", "Trial 1 (Auto)"),
		},
	}
}

// AuthEnabled reports whether the API requires basic auth.
func (c Config) AuthEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

func normalizeCacheBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case CacheBackendRedis:
		return CacheBackendRedis
	default:
		return CacheBackendMemory
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
