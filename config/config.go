package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderClaims = "claims"
	ProviderClerk  = "clerk"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"app"`
	Database struct {
		Host         string `mapstructure:"host"`
		Port         string `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		Name         string `mapstructure:"name"`
		Sslmode      string `mapstructure:"sslmode"`
		Timezone     string `mapstructure:"timezone"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Identity struct {
		Provider       string `mapstructure:"provider"`
		JWTSecret      string `mapstructure:"jwt_secret"`
		JWTPublicKey   string `mapstructure:"jwt_public_key"`
		ClerkAPIURL    string `mapstructure:"clerk_api_url"`
		ClerkSecretKey string `mapstructure:"clerk_secret_key"`
	} `mapstructure:"identity"`
	Publishing struct {
		RequireCapability bool `mapstructure:"require_capability"`
	} `mapstructure:"publishing"`
	CORS struct {
		Origins []string `mapstructure:"origins"`
	} `mapstructure:"cors"`
}

func (c *Config) IsProduction() bool {
	return strings.HasPrefix(strings.ToLower(c.App.Mode), "prod")
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	db := c.Database
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.Sslmode, db.Timezone,
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sciarticles")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.mode", "development")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "sciarticles")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("identity.provider", ProviderClaims)
	v.SetDefault("identity.jwt_secret", "")
	v.SetDefault("identity.jwt_public_key", "")
	v.SetDefault("identity.clerk_api_url", "https://api.clerk.com/v1")
	v.SetDefault("identity.clerk_secret_key", "")

	v.SetDefault("publishing.require_capability", false)

	v.SetDefault("cors.origins", []string{"http://localhost:3000"})
}

// Load reads .env (if any), an optional config/config.yaml and SCIARTICLES_* env overrides.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("SCIARTICLES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Identity.JWTSecret == "" && cfg.Identity.JWTPublicKey == "" {
		return nil, fmt.Errorf("identity.jwt_secret or identity.jwt_public_key must be set")
	}
	if cfg.Identity.Provider == ProviderClerk && cfg.Identity.ClerkSecretKey == "" {
		return nil, fmt.Errorf("identity.clerk_secret_key is required for the clerk provider")
	}

	return cfg, nil
}
