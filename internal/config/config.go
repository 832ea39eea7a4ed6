package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const insecureDefaultSecret = "change-me-in-production"

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	MongoURL              string   `mapstructure:"MONGO_URL"`
	DBName                string   `mapstructure:"DB_NAME"`
	JWTSecretKey          string   `mapstructure:"JWT_SECRET_KEY"`
	AccessTokenTTLMinutes int      `mapstructure:"ACCESS_TOKEN_TTL_MINUTES"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	DBConnectTimeoutSecs  int      `mapstructure:"DB_CONNECT_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_NAME", "psyportal")
	v.SetDefault("JWT_SECRET_KEY", insecureDefaultSecret)
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 30)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_CONNECT_TIMEOUT_SECONDS", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("MONGO_URL")
	v.BindEnv("DB_NAME")
	v.BindEnv("JWT_SECRET_KEY")
	v.BindEnv("ACCESS_TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("DB_CONNECT_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecretKey == insecureDefaultSecret {
		log.Println("WARNING: JWT_SECRET_KEY is using the built-in development default.")
		log.Println("WARNING: Set a real secret before deploying.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Production refuses
// to start with the default signing secret or a nonsensical token lifetime.
func (c *Config) Validate() error {
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.AccessTokenTTLMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MINUTES must be positive, got %d", c.AccessTokenTTLMinutes)
	}
	if c.IsProduction() && c.JWTSecretKey == insecureDefaultSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	return nil
}
