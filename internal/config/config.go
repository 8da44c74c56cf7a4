package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	HTTP    HTTPConfig
	GRPC    GRPCConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	MySQL   MySQLConfig
}

type AppConfig struct {
	Env  string
	Name string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type GRPCConfig struct {
	Addr          string
	ProbeInterval time.Duration
}

// StorageConfig selects the backends. "mongo" uses MongoDB for documents and
// Redis for the catalog; "memory" keeps everything in process.
type StorageConfig struct {
	Driver    string
	OpTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// MySQLConfig backs the movement journal. An empty DSN disables it.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c MySQLConfig) Enabled() bool {
	return c.DSN != ""
}

// Load reads .env if present, then the environment. Environment variables
// win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logger: LoggerConfig{
			Level:    v.GetString("LOGGER_LEVEL"),
			Encoding: v.GetString("LOGGER_ENCODING"),
		},
		HTTP: HTTPConfig{
			Addr:            v.GetString("HTTP_ADDR"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
		GRPC: GRPCConfig{
			Addr:          v.GetString("GRPC_ADDR"),
			ProbeInterval: v.GetDuration("GRPC_PROBE_INTERVAL"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
			OpTimeout: v.GetDuration("STORAGE_OP_TIMEOUT"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		MySQL: MySQLConfig{
			DSN:             v.GetString("MYSQL_DSN"),
			MaxOpenConns:    v.GetInt("MYSQL_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("MYSQL_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("MYSQL_CONN_MAX_LIFETIME"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "retail-inventory")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_ENCODING", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second)
	v.SetDefault("GRPC_ADDR", ":50051")
	v.SetDefault("GRPC_PROBE_INTERVAL", 10*time.Second)
	v.SetDefault("STORAGE_DRIVER", DriverMongo)
	v.SetDefault("STORAGE_OP_TIMEOUT", 5*time.Second)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "InventoryManagementApplication")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("MYSQL_MAX_OPEN_CONNS", 50)
	v.SetDefault("MYSQL_MAX_IDLE_CONNS", 25)
	v.SetDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute)
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.OpTimeout <= 0 {
		return fmt.Errorf("config: STORAGE_OP_TIMEOUT must be positive")
	}
	return nil
}
