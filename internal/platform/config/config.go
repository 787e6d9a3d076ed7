// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Log       Log       `envPrefix:"LOG_"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	Database  Database  `envPrefix:"DB_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	JWT       JWT       `envPrefix:"JWT_"`
	OTP       OTP       `envPrefix:"OTP_"`
	Mail      Mail      `envPrefix:"SMTP_"`
	Storage   Storage   `envPrefix:"STORAGE_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	Popular   Popular   `envPrefix:"POPULAR_"`
}

// Log contains logger parameters.
type Log struct {
	Level  int    `env:"LEVEL" envDefault:"0"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
}

// Database contains PostgreSQL connection parameters.
type Database struct {
	Host           string        `env:"HOST" envDefault:"localhost"`
	Port           string        `env:"PORT" envDefault:"5432"`
	User           string        `env:"USER" envDefault:"blog"`
	Password       string        `env:"PASSWORD" envDefault:"blog"`
	Name           string        `env:"NAME" envDefault:"blog"`
	SSLMode        string        `env:"SSLMODE" envDefault:"disable"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"false"`
}

// Redis contains cache parameters. An empty Host disables Redis.
type Redis struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Addr returns host:port.
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

// JWT contains token codec parameters.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
	// TTL defaults to 60*60*60 seconds.
	TTL          time.Duration `env:"TTL" envDefault:"216000s"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// OTP contains one-time code parameters.
type OTP struct {
	TTL time.Duration `env:"TTL" envDefault:"10m"`
}

// Mail contains SMTP parameters. An empty Host switches to the log mailer.
type Mail struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@blog.local"`
}

// Storage contains upload storage parameters.
type Storage struct {
	Driver        string `env:"DRIVER" envDefault:"disk"`
	DiskRoot      string `env:"DISK_ROOT" envDefault:"./uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	Minio         Minio  `envPrefix:"MINIO_"`
}

// Minio contains object storage parameters.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"blog-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"blog-secret-key"`
	Bucket    string `env:"BUCKET" envDefault:"blog-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// RateLimit contains per-client request limits.
type RateLimit struct {
	Limit  int           `env:"LIMIT" envDefault:"120"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Popular contains popularity ranking parameters.
// Timezone decides where "today" starts.
type Popular struct {
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1m"`
	Timezone string        `env:"TIMEZONE" envDefault:"UTC"`
}

// Location loads Timezone.
func (p Popular) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid POPULAR_TIMEZONE %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
