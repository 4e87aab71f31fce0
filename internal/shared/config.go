package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	BackendMongo  = "mongo"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

type Config struct {
	AppEnv         string        `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr    string        `env:"METRICS_ADDR"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	StoreBackend  string `env:"STORE_BACKEND" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"hotels"`
	MySQLDSN      string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`

	// Unset RedisAddr disables response caching.
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPass       string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	SeedWorkers int `env:"SEED_WORKERS" envDefault:"8"`
	SeedRPS     int `env:"SEED_RPS" envDefault:"5"`
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	switch c.StoreBackend {
	case BackendMongo, BackendMySQL, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q (want %s, %s or %s)",
			c.StoreBackend, BackendMongo, BackendMySQL, BackendMemory)
	}
	if c.SeedWorkers <= 0 {
		c.SeedWorkers = 1
	}
	return c, nil
}

// Warnings lists degraded-but-valid settings. Load does not log them so
// callers can report them once their logger is configured.
func (c Config) Warnings() []string {
	var ws []string
	if c.RedisAddr == "" {
		ws = append(ws, "REDIS_ADDR not set; response cache disabled")
	}
	return ws
}
