package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"shorebound"`

	RabbitURL string `env:"RABBIT_URL"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-only-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"72h"`

	// Safety panel: outbound weather/tide APIs.
	WeatherBaseURL  string        `env:"WEATHER_BASE_URL" envDefault:"https://api.open-meteo.com/v1/forecast"`
	WeatherTimeout  time.Duration `env:"WEATHER_TIMEOUT" envDefault:"6s"`
	WeatherCacheTTL time.Duration `env:"WEATHER_CACHE_TTL" envDefault:"10m"`

	TidesBaseURL  string        `env:"TIDES_BASE_URL" envDefault:"https://api.stormglass.io/v2/tide/extremes/point"`
	TidesAPIKey   string        `env:"STORMGLASS_API_KEY"`
	TidesTimeout  time.Duration `env:"TIDES_TIMEOUT" envDefault:"8s"`
	TidesCacheTTL time.Duration `env:"TIDES_CACHE_TTL" envDefault:"1h"`

	// Local tide-gauge calibration applied to every extreme.
	TideTimeOffsetMinutes  int     `env:"TIDE_TIME_OFFSET_MINUTES" envDefault:"0"`
	TideHeightOffsetMeters float64 `env:"TIDE_HEIGHT_OFFSET_METERS" envDefault:"0"`
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
