package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	LogLevel           string
	JWTSecret          string
	JWTExpiryDuration  time.Duration
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "120-M"
	MigrationsPath     string

	Ledger LedgerConfig
}

// LedgerConfig carries the accounting settings services depend on.
type LedgerConfig struct {
	// BaseCurrency overrides the currency flagged as base in the store when set.
	BaseCurrency          string
	RetainedEarningsCode  string
	PayableControlCode    string
	ReceivableControlCode string
	// ComparativeMonths is how far comparative statements are shifted back.
	ComparativeMonths int
	BalanceTolerance  decimal.Decimal
}

// DefaultLedgerConfig returns the ledger settings used when nothing is configured.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		RetainedEarningsCode:  "3100",
		PayableControlCode:    "2100",
		ReceivableControlCode: "1200",
		ComparativeMonths:     12,
		BalanceTolerance:      decimal.New(1, -2),
	}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	defaults := DefaultLedgerConfig()

	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "ledger-engine")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("BASE_CURRENCY", "")
	v.SetDefault("RETAINED_EARNINGS_CODE", defaults.RetainedEarningsCode)
	v.SetDefault("PAYABLE_CONTROL_CODE", defaults.PayableControlCode)
	v.SetDefault("RECEIVABLE_CONTROL_CODE", defaults.ReceivableControlCode)
	v.SetDefault("COMPARATIVE_MONTHS", defaults.ComparativeMonths)
	v.SetDefault("BALANCE_TOLERANCE", defaults.BalanceTolerance.String())

	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.JWTSecret = v.GetString("JWT_SECRET")
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.Ledger = LedgerConfig{
		BaseCurrency:          strings.ToUpper(strings.TrimSpace(v.GetString("BASE_CURRENCY"))),
		RetainedEarningsCode:  v.GetString("RETAINED_EARNINGS_CODE"),
		PayableControlCode:    v.GetString("PAYABLE_CONTROL_CODE"),
		ReceivableControlCode: v.GetString("RECEIVABLE_CONTROL_CODE"),
		ComparativeMonths:     v.GetInt("COMPARATIVE_MONTHS"),
	}
	if cfg.Ledger.ComparativeMonths <= 0 {
		return nil, fmt.Errorf("COMPARATIVE_MONTHS must be positive, got %d", cfg.Ledger.ComparativeMonths)
	}

	tolerance, err := decimal.NewFromString(v.GetString("BALANCE_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid BALANCE_TOLERANCE %q", v.GetString("BALANCE_TOLERANCE"))
	}
	cfg.Ledger.BalanceTolerance = tolerance

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
