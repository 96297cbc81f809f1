package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DB        DBConfig
	HTTP      HTTPConfig
	GRPC      GRPCConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD"`
	Name            string        `envconfig:"DB_NAME" default:"room_scheduler_db"`
	MaintenanceName string        `envconfig:"DB_MAINTENANCE_NAME" default:"postgres"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"10"`
	ConnectTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
}

type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8000"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type GRPCConfig struct {
	Addr string `envconfig:"GRPC_ADDR" default:":50051"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// RPS of zero turns limiting off.
type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"100"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	for _, section := range []any{&cfg.DB, &cfg.HTTP, &cfg.GRPC, &cfg.Log, &cfg.RateLimit} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return fmt.Errorf("config: DB_HOST, DB_USER and DB_NAME must not be empty")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config: rate limit values must not be negative")
	}
	return nil
}

// DSN points at the application database.
func (c *Config) DSN() string { return c.dsn(c.DB.Name) }

// MaintenanceDSN points at the server-level database used to create
// the application database.
func (c *Config) MaintenanceDSN() string { return c.dsn(c.DB.MaintenanceName) }

func (c *Config) dsn(database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   net.JoinHostPort(c.DB.Host, strconv.Itoa(c.DB.Port)),
		Path:   "/" + database,
	}
	if c.DB.Password == "" {
		u.User = url.User(c.DB.User)
	}
	q := url.Values{}
	q.Set("sslmode", c.DB.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// String masks the password.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s@%s:%d/%s, HTTP: %s, gRPC: %s, Password: ***}",
		c.DB.User, c.DB.Host, c.DB.Port, c.DB.Name, c.HTTP.Addr, c.GRPC.Addr)
}
