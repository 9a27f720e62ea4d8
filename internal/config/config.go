package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string
		Path   string
		URI    string
		Name   string
	}
	Auth struct {
		AccessSecret  string
		RefreshSecret string
		AccessTTL     time.Duration
		RefreshTTL    time.Duration
	}
	Catalog struct {
		SeedFile string
	}
	Storage struct {
		Bucket     string
		KeyPrefix  string
		Region     string
		Endpoint   string
		PresignTTL time.Duration
	}
	AWS struct {
		Profile string
	}
	Heartbeat struct {
		Interval time.Duration
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/shop.db")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "mobileshop")
	v.SetDefault("auth.accesssecret", "")
	v.SetDefault("auth.refreshsecret", "")
	v.SetDefault("auth.accessttl", 15*time.Minute)
	v.SetDefault("auth.refreshttl", 7*24*time.Hour)
	v.SetDefault("catalog.seedfile", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "products")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presignttl", time.Hour)
	v.SetDefault("aws.profile", "")
	v.SetDefault("heartbeat.interval", 10*time.Minute)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	access := strings.TrimSpace(c.Auth.AccessSecret)
	refresh := strings.TrimSpace(c.Auth.RefreshSecret)
	switch {
	case access == "":
		return fmt.Errorf("auth access secret is required")
	case refresh == "":
		return fmt.Errorf("auth refresh secret is required")
	case access == refresh:
		return fmt.Errorf("auth access and refresh secrets must differ")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("auth token lifetimes must be positive")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return fmt.Errorf("database uri and name are required for the mongo driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// loadDotEnv fills unset variables from a .env file when one exists. Values
// already present in the environment win.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}
