package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment
// variables.
type Config struct {
	Env       string `mapstructure:"env"` // local, dev, production
	HTTPAddr  string `mapstructure:"http_addr"`
	JWTSecret string `mapstructure:"-"` // loaded from environment only
	DB        DB     `mapstructure:"database"`
	Redis     Redis  `mapstructure:"redis"`
	AI        AI     `mapstructure:"ai"`
	CORS      CORS   `mapstructure:"cors"`
}

// DB contains database connection parameters.
type DB struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"-"`
	Name     string `mapstructure:"name"`
}

// DSN returns the postgres connection string.
func (db DB) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		db.Host, db.User, db.Password, db.Name, db.Port,
	)
}

// Redis contains cache connection parameters.
type Redis struct {
	Addr string `mapstructure:"addr"`
}

// AI configures the content-generation client.
type AI struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"-"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CORS configures allowed frontend origins.
type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from config/config.yaml (if present) and
// environment variables. Secrets come from the environment only.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "studysphere")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("ai.base_url", "https://api.openai.com")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("ai.api_key", "AI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.JWTSecret = v.GetString("jwt_secret")
	if cfg.JWTSecret == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.Password = v.GetString("database.password")
	cfg.AI.APIKey = v.GetString("ai.api_key")

	return &cfg, nil
}
