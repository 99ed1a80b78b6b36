package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spa-backend/services"

	"github.com/joho/godotenv"
)

// Settings is the runtime configuration read from the environment.
type Settings struct {
	Port   string
	AppEnv string

	// DatabaseURL empty selects the in-memory store.
	DatabaseURL     string
	DBRetryMaxTries uint

	DiscountMode      services.DiscountMode
	DebitCardDiscount int
	MinLeadTime       time.Duration

	// JWTSecret empty disables bearer token verification.
	JWTSecret   string
	CORSOrigins []string

	KafkaBrokers       string
	OutboxPollInterval time.Duration

	RedisAddr       string
	CatalogCacheTTL time.Duration

	Twilio       services.TwilioConfig
	ReminderCron string
}

// Load reads a .env file when present, then the environment.
func Load() (Settings, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds Settings from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Settings, error) {
	s := Settings{
		Port:         valueOr(getenv("PORT"), "8080"),
		AppEnv:       valueOr(getenv("APP_ENV"), "development"),
		DatabaseURL:  valueOr(getenv("DATABASE_URL"), getenv("DB_URL")),
		JWTSecret:    getenv("JWT_SECRET"),
		CORSOrigins:  splitList(valueOr(getenv("CORS_ORIGINS"), "http://localhost:3000")),
		KafkaBrokers: getenv("KAFKA_BROKERS"),
		RedisAddr:    getenv("REDIS_ADDR"),
		Twilio: services.TwilioConfig{
			AccountSID:     getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:      getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    getenv("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: getenv("TWILIO_WHATSAPP_NUMBER"),
		},
		ReminderCron: valueOr(getenv("REMINDER_CRON"), services.DefaultReminderSchedule),
	}

	var err error
	if s.DiscountMode, err = services.ParseDiscountMode(getenv("DISCOUNT_MODE")); err != nil {
		return Settings{}, fmt.Errorf("DISCOUNT_MODE: %w", err)
	}
	if s.DebitCardDiscount, err = intOr(getenv("DEBIT_CARD_DISCOUNT"), services.DefaultDebitCardDiscount); err != nil {
		return Settings{}, fmt.Errorf("DEBIT_CARD_DISCOUNT: %w", err)
	}
	if s.DebitCardDiscount < 1 || s.DebitCardDiscount > 100 {
		return Settings{}, fmt.Errorf("DEBIT_CARD_DISCOUNT: %d is outside 1..100", s.DebitCardDiscount)
	}

	leadHours, err := intOr(getenv("MIN_LEAD_TIME_HOURS"), int(services.DefaultMinLeadTime/time.Hour))
	if err != nil {
		return Settings{}, fmt.Errorf("MIN_LEAD_TIME_HOURS: %w", err)
	}
	if leadHours < 1 {
		return Settings{}, fmt.Errorf("MIN_LEAD_TIME_HOURS: must be at least 1")
	}
	s.MinLeadTime = time.Duration(leadHours) * time.Hour

	tries, err := intOr(getenv("DB_RETRY_MAX_TRIES"), 3)
	if err != nil {
		return Settings{}, fmt.Errorf("DB_RETRY_MAX_TRIES: %w", err)
	}
	if tries < 1 {
		return Settings{}, fmt.Errorf("DB_RETRY_MAX_TRIES: must be at least 1")
	}
	s.DBRetryMaxTries = uint(tries)

	if s.OutboxPollInterval, err = durationOr(getenv("OUTBOX_POLL_INTERVAL"), 2*time.Second); err != nil {
		return Settings{}, fmt.Errorf("OUTBOX_POLL_INTERVAL: %w", err)
	}
	if s.CatalogCacheTTL, err = durationOr(getenv("CATALOG_CACHE_TTL"), 10*time.Minute); err != nil {
		return Settings{}, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}
	return s, nil
}

func (s Settings) Production() bool {
	return s.AppEnv == "production"
}

func (s Settings) Discount() services.DiscountPolicy {
	return services.DiscountPolicy{Mode: s.DiscountMode, DebitCardPercentage: s.DebitCardDiscount}
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func intOr(v string, fallback int) (int, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func durationOr(v string, fallback time.Duration) (time.Duration, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
