// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type MongoConfig struct {
	URI          string        `mapstructure:"uri"`
	DBName       string        `mapstructure:"dbName"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Transactions bool          `mapstructure:"transactions"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedConfig drives the demo seeder and the bootstrap admin account.
type SeedConfig struct {
	RandomSeed    uint64 `mapstructure:"randomSeed"`
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminPassword string `mapstructure:"adminPassword"`
	AdminLocation string `mapstructure:"adminLocation"`
}

type RateLimitConfig struct {
	PublicRPS   float64       `mapstructure:"publicRPS"`
	PublicBurst int           `mapstructure:"publicBurst"`
	IdleTTL     time.Duration `mapstructure:"idleTTL"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

var envBindings = map[string]string{
	"server.port":           "SERVER_PORT",
	"server.mode":           "GIN_MODE",
	"mongo.uri":             "MONGO_URI",
	"mongo.dbName":          "MONGO_DBNAME",
	"mongo.timeout":         "MONGO_TIMEOUT",
	"mongo.transactions":    "MONGO_TRANSACTIONS",
	"jwt.secret":            "JWT_SECRET",
	"jwt.expiration":        "JWT_EXPIRATION",
	"log.level":             "LOG_LEVEL",
	"log.format":            "LOG_FORMAT",
	"seed.randomSeed":       "SEED_RANDOM_SEED",
	"seed.adminEmail":       "SEED_ADMIN_EMAIL",
	"seed.adminPassword":    "SEED_ADMIN_PASSWORD",
	"seed.adminLocation":    "SEED_ADMIN_LOCATION",
	"rateLimit.publicRPS":   "RATE_LIMIT_PUBLIC_RPS",
	"rateLimit.publicBurst": "RATE_LIMIT_PUBLIC_BURST",
	"rateLimit.idleTTL":     "RATE_LIMIT_IDLE_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("mongo.dbName", "bloodbank")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("mongo.transactions", false)
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("seed.adminLocation", "Central Hospital")
	v.SetDefault("rateLimit.publicRPS", 5.0)
	v.SetDefault("rateLimit.publicBurst", 10)
	v.SetDefault("rateLimit.idleTTL", 10*time.Minute)
}

// LoadConfig reads config.yaml from path and overrides it with environment
// variables. A .env file in the working directory is loaded first when it
// exists; a missing config.yaml is not an error.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return config, err
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	return config, config.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}
