package config

import (
	"fmt"

	"github.com/spf13/viper"

	"turfbook/internal/pkg/validator"
)

// Config carries every runtime setting the engine reads. Rates and the night
// window are treated as read-only configuration: the engine never writes them.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT" validate:"required"`
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Pricing settings.
	DayRate   float64 `mapstructure:"DAY_RATE" validate:"gt=0"`
	NightRate float64 `mapstructure:"NIGHT_RATE" validate:"gt=0"`
	// Night window [NIGHT_START_HOUR, NIGHT_END_HOUR); may wrap midnight,
	// e.g. 17 -> 7.
	NightStartHour int `mapstructure:"NIGHT_START_HOUR" validate:"min=0,max=23"`
	NightEndHour   int `mapstructure:"NIGHT_END_HOUR" validate:"min=0,max=23"`

	// Minimum advance collected at booking time.
	RequiredAdvance float64 `mapstructure:"REQUIRED_ADVANCE" validate:"min=0"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "turfbook.db")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DAY_RATE", 1500.0)
	viper.SetDefault("NIGHT_RATE", 2000.0)
	viper.SetDefault("NIGHT_START_HOUR", 17)
	viper.SetDefault("NIGHT_END_HOUR", 7)
	viper.SetDefault("REQUIRED_ADVANCE", 1000.0)

	// A config file is optional; env vars alone are enough.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if fields := validator.Validate(&cfg); fields != nil {
		return nil, fmt.Errorf("invalid config: %v", fields)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
