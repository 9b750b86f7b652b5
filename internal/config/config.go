package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the scheduler and its tools.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	ReportTime     string
	ReportInterval time.Duration
	Timezone       string
	Location       *time.Location
	TrendDays      int
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the PLANNER_ prefix; TELEGRAM_TOKEN, DATABASE_URL
// and REPORT_INTERVAL_HOURS are honoured as well. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("database_url", "task_scheduler.db")
	v.SetDefault("report_time", "08:00")
	v.SetDefault("timezone", "Local")
	v.SetDefault("trend_days", 7)

	_ = v.BindEnv("database_url", "PLANNER_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("telegram_token", "PLANNER_TELEGRAM_TOKEN", "TELEGRAM_TOKEN")
	_ = v.BindEnv("report_interval_hours", "PLANNER_REPORT_INTERVAL_HOURS", "REPORT_INTERVAL_HOURS")
	_ = v.BindEnv("report_time", "PLANNER_REPORT_TIME")
	_ = v.BindEnv("timezone", "PLANNER_TIMEZONE")
	_ = v.BindEnv("trend_days", "PLANNER_TREND_DAYS")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := Config{
		DatabaseURL:    strings.TrimSpace(v.GetString("database_url")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram_token")),
		ReportTime:     strings.TrimSpace(v.GetString("report_time")),
		ReportInterval: parseInterval(strings.TrimSpace(v.GetString("report_interval_hours"))),
		Timezone:       strings.TrimSpace(v.GetString("timezone")),
		TrendDays:      v.GetInt("trend_days"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_scheduler.db"
	}
	if cfg.TrendDays <= 0 {
		return cfg, fmt.Errorf("trend_days must be positive, got %d", cfg.TrendDays)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
