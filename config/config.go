package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hotel-backoffice/utils"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver string // mysql or postgres
	URL    string // MYSQL_URL / DATABASE_URL, takes precedence over the parts
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type WhatsAppConfig struct {
	BaseURL       string
	PhoneNumberID string
	Token         string
}

type Config struct {
	Port        string
	CORSOrigins []string
	LogLevel    string
	LogFormat   string
	ServiceName string

	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     utils.SMTPConfig
	WhatsApp WhatsAppConfig

	SeedAdminPassword string
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(envOrDefault(key, "")); err == nil {
		return n
	}
	return def
}

func parseCorsOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Load reads .env when present, then the environment.
func Load() (*Config, bool) {
	dotenv := godotenv.Load() == nil

	dbURL := envOrDefault("MYSQL_URL", "")
	if dbURL == "" {
		dbURL = envOrDefault("DATABASE_URL", "")
	}
	driver := strings.ToLower(envOrDefault("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" || driver == "postgresql" {
		defaultPort = "5432"
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		ServiceName: envOrDefault("SERVICE_NAME", "hotel-backoffice"),
		Database: DatabaseConfig{
			Driver: driver,
			URL:    dbURL,
			User:   envOrDefault("DB_USER", "root"),
			Pass:   os.Getenv("DB_PASS"),
			Host:   envOrDefault("DB_HOST", "127.0.0.1"),
			Port:   envOrDefault("DB_PORT", defaultPort),
			Name:   envOrDefault("DB_NAME", "hotel_db"),
		},
		Redis: RedisConfig{
			Addr:     envOrDefault("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			TTL:      time.Duration(envInt("SETTINGS_CACHE_TTL_SECONDS", 600)) * time.Second,
		},
		SMTP: utils.SMTPConfig{
			Host:     envOrDefault("SMTP_HOST", ""),
			Port:     envOrDefault("SMTP_PORT", "587"),
			Username: envOrDefault("SMTP_USERNAME", ""),
			Password: os.Getenv("SMTP_PASSWORD"),
			FromName: envOrDefault("SMTP_FROM_NAME", "Hotel Reservations"),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:       envOrDefault("WHATSAPP_API_URL", ""),
			PhoneNumberID: envOrDefault("WHATSAPP_PHONE_NUMBER_ID", ""),
			Token:         os.Getenv("WHATSAPP_TOKEN"),
		},
		SeedAdminPassword: envOrDefault("SEED_ADMIN_PASSWORD", "admin123"),
	}
	return cfg, dotenv
}
