package config

import (
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port           string `env:"PORT,default=8080"`
	GinMode        string `env:"GIN_MODE,default=debug"`
	DBURL          string `env:"DB_URL,required"`
	RedisURL       string `env:"REDIS_URL"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS,default=false"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`

	Session  SessionConfig
	Supabase SupabaseConfig
	Clover   CloverConfig
	Twilio   TwilioConfig
	Business BusinessConfig
}

type SessionConfig struct {
	CookieName        string        `env:"SESSION_COOKIE_NAME,default=sb-access-token"`
	RefreshCookieName string        `env:"SESSION_REFRESH_COOKIE_NAME,default=sb-refresh-token"`
	CookieSecure      bool          `env:"COOKIE_SECURE,default=true"`
	CacheTTL          time.Duration `env:"SESSION_CACHE_TTL,default=30s"`
}

type SupabaseConfig struct {
	URL        string `env:"SUPABASE_URL,required"`
	AnonKey    string `env:"SUPABASE_ANON_KEY,required"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	JWTSecret  string `env:"SUPABASE_JWT_SECRET"`
}

type CloverConfig struct {
	APIBase    string        `env:"CLOVER_API_BASE,default=https://api.clover.com"`
	APIToken   string        `env:"CLOVER_API_TOKEN"`
	MerchantID string        `env:"CLOVER_MERCHANT_ID"`
	CacheTTL   time.Duration `env:"CLOVER_CACHE_TTL,default=5m"`
	RetryCount int           `env:"CLOVER_RETRY_COUNT,default=3"`
	RetryDelay time.Duration `env:"CLOVER_RETRY_DELAY,default=500ms"`
	RateLimit  float64       `env:"CLOVER_RATE_LIMIT,default=16"`
	Timeout    time.Duration `env:"CLOVER_TIMEOUT,default=10s"`
}

type TwilioConfig struct {
	AccountSID   string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken    string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber  string `env:"TWILIO_PHONE_NUMBER"`
	ReminderCron string `env:"REMINDER_CRON,default=0 9 * * *"`
}

// BusinessConfig is used when Clover has no shift for a groomer on a given day.
type BusinessConfig struct {
	Open        string `env:"BUSINESS_OPEN,default=09:00"`
	Close       string `env:"BUSINESS_CLOSE,default=17:00"`
	SlotMinutes int    `env:"SLOT_MINUTES,default=30"`
	Timezone    string `env:"BUSINESS_TIMEZONE,default=America/New_York"`
}

// Load reads .env (if present) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Location resolves the business timezone, falling back to UTC.
func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Enabled reports whether the POS credentials are present.
func (c CloverConfig) Enabled() bool {
	return c.APIToken != "" && c.MerchantID != ""
}

// Enabled reports whether reminders can be sent.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}
