package config

import (
	"fmt"
	"time"

	"github.com/rentadriver/ride-booking-system/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		HTTP        HTTPConfig
		Database    DatabaseConfig
		RabbitMQ    RabbitMQConfig
		Geocoder    GeocoderConfig
		Auth        AuthConfig
		Matching    MatchingConfig
		Leaderboard LeaderboardConfig
		Logging     LoggingConfig
	}

	HTTPConfig struct {
		Host string `env:"HTTP_HOST" default:"0.0.0.0"`
		Port string `env:"HTTP_PORT" default:"3000"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"rentadriver_user"`
		Password string `env:"DATABASE_PASSWORD" default:"rentadriver_pass"`
		Database string `env:"DATABASE_DATABASE" default:"rentadriver_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`

		// Publishing is best-effort; the app runs without a broker when disabled.
		Enabled bool `env:"RABBITMQ_ENABLED" default:"true"`
	}

	GeocoderConfig struct {
		BaseURL   string        `env:"GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
		UserAgent string        `env:"GEOCODER_USER_AGENT" default:"RentADriver/1.0"`
		Timeout   time.Duration `env:"GEOCODER_TIMEOUT" default:"5s"`
	}

	AuthConfig struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"168h"`
		JWTSecret       string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	MatchingConfig struct {
		RadiusKm float64 `env:"MATCHING_RADIUS_KM" default:"10"`
		Limit    int     `env:"MATCHING_LIMIT" default:"10"`
	}

	LeaderboardConfig struct {
		Limit int `env:"LEADERBOARD_LIMIT" default:"10"`
	}

	LoggingConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}
)

// PoolSettings exposes the pgxpool tunables.
func (c DatabaseConfig) PoolSettings() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading environment variables and parsing into the config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
