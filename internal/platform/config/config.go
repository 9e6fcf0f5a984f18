package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"salaryengine/internal/domain/salary"
)

type Config struct {
	Addr               string        `envconfig:"APP_ADDR" default:":8080"`
	Environment        string        `envconfig:"APP_ENV" default:"development"`
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	JWTSecret          string        `envconfig:"JWT_SECRET"`
	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	DACacheTTL         time.Duration `envconfig:"DA_CACHE_TTL" default:"10m"`
	LogFormat          string        `envconfig:"LOG_FORMAT" default:"json"`
	RunMigrations      bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed            bool          `envconfig:"RUN_SEED" default:"false"`
	MigrationsDir      string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	MaxBodyBytes       int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	MetricsEnabled     bool          `envconfig:"METRICS_ENABLED" default:"true"`
	WorkerConcurrency  int           `envconfig:"WORKER_CONCURRENCY" default:"5"`
	PayrollCron        string        `envconfig:"PAYROLL_CRON"`

	DefaultDAAmount    float64           `envconfig:"DEFAULT_DA_AMOUNT" default:"0"`
	PFCeilingMode      string            `envconfig:"PF_CEILING_MODE" default:"15000"`
	PFWageCeiling      float64           `envconfig:"PF_WAGE_CEILING" default:"15000"`
	ESICSalaryCeiling  float64           `envconfig:"ESIC_SALARY_CEILING" default:"21000"`
	CallAllowanceFixed float64           `envconfig:"CALL_ALLOWANCE_FIXED" default:"500"`
	SplitFormulas      map[string]string `envconfig:"SPLIT_FORMULAS"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	if c.PayrollCron != "" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must be set when PAYROLL_CRON is configured")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	if _, err := c.Rates(); err != nil {
		return err
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Logger returns the process logger in the configured format.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if !c.IsProduction() {
		opts.Level = slog.LevelDebug
	}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("service", "salaryengine")
}

// Rates builds the rate table from the base values and the env overrides.
func (c Config) Rates() (salary.Rates, error) {
	mode := salary.CeilingMode(c.PFCeilingMode)
	overrides := salary.RateOverrides{
		PFCeilingMode:      &mode,
		PFWageCeiling:      &c.PFWageCeiling,
		ESICSalaryCeiling:  &c.ESICSalaryCeiling,
		CallAllowanceFixed: &c.CallAllowanceFixed,
		DefaultDAAmount:    &c.DefaultDAAmount,
	}
	if len(c.SplitFormulas) > 0 {
		overrides.Formulas = make(map[salary.Field]string, len(c.SplitFormulas))
		for field, formula := range c.SplitFormulas {
			overrides.Formulas[salary.Field(strings.TrimSpace(field))] = strings.TrimSpace(formula)
		}
	}
	rates := salary.DefaultRates().With(overrides)
	if err := rates.Validate(); err != nil {
		return salary.Rates{}, fmt.Errorf("rate table: %w", err)
	}
	return rates, nil
}
