// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every variable.
const EnvPrefix = "WEALTHNAV_"

// Registry backends.
const (
	RegistryNone   = "none"
	RegistrySQLite = "sqlite"
	RegistrySheets = "sheets"
)

// Config is the full process configuration.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	DBPath        string `env:"DB"`
	QuestionsFile string `env:"QUESTIONS_FILE" validate:"omitempty,file"`

	Registry string       `env:"REGISTRY" envDefault:"sqlite" validate:"oneof=none sqlite sheets"`
	Sheets   SheetsConfig `envPrefix:"SHEETS_"`

	// SessionIdleTTL enables the idle-session sweep when positive.
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0" validate:"gte=0"`
	SweepSchedule   string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 5m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	AdvisorEnabled bool          `env:"ADVISOR_ENABLED" envDefault:"true"`
	AdvisorTimeout time.Duration `env:"ADVISOR_TIMEOUT" envDefault:"30s"`

	OTelEndpoint string `env:"OTEL_ENDPOINT" validate:"omitempty,url"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`

	LINE LINEConfig `envPrefix:"LINE_"`
}

// SheetsConfig locates the registration spreadsheet.
type SheetsConfig struct {
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	Name            string `env:"NAME" envDefault:"Sheet1"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
	Timezone        string `env:"TIMEZONE" envDefault:"Asia/Taipei"`
}

// LINEConfig holds the channel credentials. Only serve needs them.
type LINEConfig struct {
	ChannelSecret      string `env:"CHANNEL_SECRET" validate:"required"`
	ChannelAccessToken string `env:"CHANNEL_ACCESS_TOKEN" validate:"required"`
	APIBaseURL         string `env:"API_BASE_URL" validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads envFile (or ./.env when empty and present) into the
// environment, then parses and validates WEALTHNAV_* variables. Variables
// already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Validate checks everything except the LINE credentials.
func (c Config) Validate() error {
	if err := validate.StructExcept(c, "LINE"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Registry == RegistrySheets {
		if c.Sheets.SpreadsheetID == "" || c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("invalid config: %sSHEETS_SPREADSHEET_ID and %sSHEETS_CREDENTIALS_FILE are required for the sheets registry", EnvPrefix, EnvPrefix)
		}
	}
	return nil
}

// ValidateServe additionally requires the LINE channel credentials.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c.LINE); err != nil {
		return fmt.Errorf("invalid config: LINE channel: %w", err)
	}
	return nil
}

// Location resolves the sheets timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sheets.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
