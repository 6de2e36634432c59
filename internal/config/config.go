package config

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ledgererrors "github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/logger"
)

// Storage drivers for the remote repository
const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Conflict policies applied by the client after a sync
const (
	ConflictPreferServer = "prefer-server"
	ConflictKeepLocal    = "keep-local"
)

// Config holds all configuration for the server and the CLI.
type Config struct {
	// Server holds the listener settings for the gRPC and HTTP boundaries.
	Server ServerConfig `mapstructure:"server"`
	// Storage selects and configures the remote repository.
	Storage StorageConfig `mapstructure:"storage"`
	// Cache locates the local snapshot cache used by the CLI.
	Cache CacheConfig `mapstructure:"cache"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Sync configures how the CLI reaches the server and resolves conflicts.
	Sync SyncConfig `mapstructure:"sync"`
	// Currency configures the coin conversion automaton.
	Currency CurrencyConfig `mapstructure:"currency"`
}

// ServerConfig configures the listeners.
type ServerConfig struct {
	GRPCPort        int           `mapstructure:"grpc_port" default:"50051"`
	HTTPPort        int           `mapstructure:"http_port" default:"8080"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
	AllowedOrigins  string        `mapstructure:"allowed_origins" default:"*"`
}

// StorageConfig configures the remote repository.
type StorageConfig struct {
	Driver          string `mapstructure:"driver" default:"redis"`
	RedisAddr       string `mapstructure:"redis_addr" default:"localhost:6379"`
	RedisPoolSize   int    `mapstructure:"redis_pool_size" default:"10"`
	RedisMaxRetries int    `mapstructure:"redis_max_retries" default:"3"`
	RedisTLS        bool   `mapstructure:"redis_tls" default:"false"`
	PostgresDSN     string `mapstructure:"postgres_dsn" default:""`
}

// CacheConfig configures the local snapshot cache.
type CacheConfig struct {
	Path string `mapstructure:"path" default:"equipment-cache.db"`
}

// SyncConfig configures the client side of reconciliation.
type SyncConfig struct {
	ServerAddr     string        `mapstructure:"server_addr" default:"localhost:50051"`
	Timeout        time.Duration `mapstructure:"timeout" default:"30s"`
	ConflictPolicy string        `mapstructure:"conflict_policy" default:"prefer-server"`
}

// CurrencyConfig configures coin conversion.
type CurrencyConfig struct {
	// Cascade converts through every tier in one call instead of one promotion per call.
	Cascade bool `mapstructure:"cascade" default:"false"`
}

// Load loads configuration from an optional .env file, an optional config.yaml in path,
// and environment variables (e.g. STORAGE_DRIVER -> storage.driver).
func Load(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Missing .env is the normal case outside development
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, ledgererrors.Wrap(err, "failed to read config file")
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ledgererrors.Wrap(err, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that the binaries cannot start without.
func (c *Config) Validate() error {
	vb := ledgererrors.NewValidationBuilder()

	ledgererrors.ValidateRange("server.grpc_port", c.Server.GRPCPort, 0, 65535, vb)
	ledgererrors.ValidateRange("server.http_port", c.Server.HTTPPort, 0, 65535, vb)
	ledgererrors.ValidateEnum("storage.driver", c.Storage.Driver,
		[]string{DriverRedis, DriverPostgres, DriverMemory}, vb)
	ledgererrors.ValidateEnum("sync.conflict_policy", c.Sync.ConflictPolicy,
		[]string{ConflictPreferServer, ConflictKeepLocal}, vb)

	if c.Storage.Driver == DriverPostgres {
		ledgererrors.ValidateRequired("storage.postgres_dsn", c.Storage.PostgresDSN, vb)
	}
	if c.Storage.Driver == DriverRedis {
		ledgererrors.ValidateRequired("storage.redis_addr", c.Storage.RedisAddr, vb)
	}

	return vb.Build()
}

// bindValues walks the struct and registers every `mapstructure` key with its `default`
// tag so AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// time.Duration is an int64, so only real structs recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
