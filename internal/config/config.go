package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string        `env:"APP_PORT" envDefault:"8080"`
	AppURL      string        `env:"APP_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string        `env:"DATABASE_URL,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,notEmpty"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Timezone    string        `env:"APP_TIMEZONE" envDefault:"Europe/Lisbon"`
	StoragePath string        `env:"STORAGE_PATH" envDefault:"./storage"`

	BackfillSchedule string `env:"BACKFILL_SCHEDULE" envDefault:"30 0 * * *"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Google GoogleConfig
	SMTP   SMTPConfig
}

type GoogleConfig struct {
	ClientID          string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret      string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL       string `env:"GOOGLE_CALLBACK_URL"`
	RefreshToken      string `env:"GOOGLE_REFRESH_TOKEN"`
	CalendarID        string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
	HolidayCalendarID string `env:"GOOGLE_HOLIDAY_CALENDAR_ID" envDefault:"pt.portuguese#holiday@group.v.calendar.google.com"`
}

// Enabled reports whether enough credentials are present to reach the calendar API.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != ""
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location returns the configured application time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
