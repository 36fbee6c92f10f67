package config

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file, a .env file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Address returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver selects the persistence backend: "mongo" or "memory".
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	// Transactions wraps multi-document writes in a session transaction.
	// Requires a replica set or sharded cluster.
	Transactions bool `mapstructure:"transactions"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	ErrMissingDatabaseURI = errors.New("database uri is required (MONGO_URI or DATABASE_URI)")
	ErrMissingJWTSecret   = errors.New("jwt secret is required (SECRET_KEY or JWT_SECRET)")
)

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present; variables
// already set in the process environment win over it.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.port -> SERVER_PORT, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Names used by existing deployments.
	_ = v.BindEnv("database.uri", "DATABASE_URI", "MONGO_URI")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "SECRET_KEY")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.name", "fitness")
	v.SetDefault("database.transactions", false)
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that have no sensible default.
func (c Config) Validate() error {
	if c.Database.Driver != "memory" && c.Database.URI == "" {
		return ErrMissingDatabaseURI
	}
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
