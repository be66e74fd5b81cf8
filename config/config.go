package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the application reads from the environment.
// Components receive the pieces they need explicitly; nothing else in the
// codebase touches env vars.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	JWT    JWTConfig
	SMTP   SMTPConfig
	Auth   AuthConfig

	Env string // local / prod
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins string
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI string
	DB  string
}

// RedisConfig holds the optional stats-cache settings. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	StatsTTL time.Duration
}

// JWTConfig holds signing settings.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// SMTPConfig holds the mail transport.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// AuthConfig holds registration/reset knobs.
type AuthConfig struct {
	AdminSecret  string
	OTPTTL       time.Duration
	ResetTTL     time.Duration
	ResetBaseURL string
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MONGO_DB", "messmate")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATS_CACHE_TTL_SEC", 5)
	v.SetDefault("JWT_EXP_MIN", 60)
	v.SetDefault("OTP_TTL_MIN", 10)
	v.SetDefault("RESET_TTL_MIN", 15)
	v.SetDefault("RESET_BASE_URL", "http://localhost:3000")

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetString("PORT"),
			CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Mongo: MongoConfig{
			URI: v.GetString("MONGO_URI"),
			DB:  v.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			StatsTTL: time.Duration(v.GetInt("STATS_CACHE_TTL_SEC")) * time.Second,
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    time.Duration(v.GetInt("JWT_EXP_MIN")) * time.Minute,
		},
		SMTP: SMTPConfig{
			Host: v.GetString("SMTP_HOST"),
			Port: v.GetString("SMTP_PORT"),
			User: v.GetString("SMTP_USER"),
			Pass: v.GetString("SMTP_PASS"),
			From: v.GetString("SMTP_FROM"),
		},
		Auth: AuthConfig{
			AdminSecret:  v.GetString("ADMIN_SECRET"),
			OTPTTL:       time.Duration(v.GetInt("OTP_TTL_MIN")) * time.Minute,
			ResetTTL:     time.Duration(v.GetInt("RESET_TTL_MIN")) * time.Minute,
			ResetBaseURL: v.GetString("RESET_BASE_URL"),
		},
		Env: v.GetString("APP_ENV"),
	}

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI not set")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	return cfg, nil
}
