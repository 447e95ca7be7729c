package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Debug    bool          `mapstructure:"debug"`
	Locale   string        `mapstructure:"locale"`
	Timezone string        `mapstructure:"timezone"`
	Server   ServerConfig  `mapstructure:"server"`
	Storage  StorageConfig `mapstructure:"storage"`
	Redis    RedisConfig   `mapstructure:"redis"`
	SQLite   SQLiteConfig  `mapstructure:"sqlite"`
	Bolt     BoltConfig    `mapstructure:"bolt"`
	Export   ExportConfig  `mapstructure:"export"`
	Demo     DemoConfig    `mapstructure:"demo"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	PublicBaseURL string `mapstructure:"public_base_url"` // encoded into tab QR codes
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`    // memory, redis, sqlite or bolt
	Namespace string `mapstructure:"namespace"` // isolates one deployment's keys
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SQLiteConfig holds sqlite settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// BoltConfig holds bbolt settings.
type BoltConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig controls the CSV export contract.
type ExportConfig struct {
	// CSVQuote switches CSV export from plain comma-joining to RFC 4180 quoting.
	CSVQuote bool `mapstructure:"csv_quote"`
}

// DemoConfig controls sample data for a fresh install.
type DemoConfig struct {
	Seed bool `mapstructure:"seed"`
}

// Load reads configuration from an optional file, a .env file and the
// environment. Env var overrides use prefix CHECKIN_, e.g. CHECKIN_REDIS_ADDR.
func Load() (Config, error) {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgPath := os.Getenv("CHECKIN_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("checkin")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else {
			log.Printf("Using config file %s", v.ConfigFileUsed())
		}
	}

	v.SetEnvPrefix("CHECKIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v)
}

// Defaults returns the configuration with no file or environment applied.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		panic(err)
	}
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("locale", "zh-TW")
	v.SetDefault("timezone", "Local")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.public_base_url", "http://localhost:8080")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.namespace", "checkin")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 8)
	v.SetDefault("sqlite.path", "checkin.db")
	v.SetDefault("bolt.path", "checkin.bolt")
	v.SetDefault("export.csv_quote", false)
	v.SetDefault("demo.seed", false)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Location resolves the configured timezone used for check-in timestamps.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
