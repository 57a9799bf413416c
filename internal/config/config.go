package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/adriaway/booking/internal/domain"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Mail     MailConfig
	Widget   WidgetConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string
	TTL     time.Duration
}

type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	AdminEmail     string
}

type WidgetConfig struct {
	ButtonText string
	Language   domain.Language
}

type AdminConfig struct {
	APIToken string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	cacheBackend := os.Getenv("CACHE_BACKEND")
	if cacheBackend == "" {
		cacheBackend = "memory"
	}
	if cacheBackend != "memory" && cacheBackend != "redis" {
		return nil, fmt.Errorf("%s: invalid CACHE_BACKEND %q", op, cacheBackend)
	}

	cacheTTLStr := os.Getenv("CACHE_TTL_SECONDS")
	if cacheTTLStr == "" {
		cacheTTLStr = "300"
	}

	cacheTTLSeconds, err := strconv.Atoi(cacheTTLStr)
	if err != nil || cacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("%s: invalid CACHE_TTL_SECONDS: %q", op, cacheTTLStr)
	}

	cacheCfg := CacheConfig{
		Backend: cacheBackend,
		TTL:     time.Duration(cacheTTLSeconds) * time.Second,
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil, fmt.Errorf("%s: missing ADMIN_EMAIL", op)
	}

	fromName := os.Getenv("MAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Adriaway Boat Tours"
	}

	mailCfg := MailConfig{
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      os.Getenv("MAIL_FROM_EMAIL"),
		FromName:       fromName,
		AdminEmail:     adminEmail,
	}

	buttonText := os.Getenv("WIDGET_BUTTON_TEXT")
	if buttonText == "" {
		buttonText = "Book Now"
	}

	langStr := os.Getenv("WIDGET_LANGUAGE")
	if langStr == "" {
		langStr = "en"
	}

	lang := domain.Language(langStr)
	if !lang.Valid() {
		return nil, fmt.Errorf("%s: invalid WIDGET_LANGUAGE %q", op, langStr)
	}

	widgetCfg := WidgetConfig{
		ButtonText: buttonText,
		Language:   lang,
	}

	adminToken := os.Getenv("ADMIN_API_TOKEN")
	if adminToken == "" {
		return nil, fmt.Errorf("%s: missing ADMIN_API_TOKEN", op)
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Cache:    cacheCfg,
		Mail:     mailCfg,
		Widget:   widgetCfg,
		Admin:    AdminConfig{APIToken: adminToken},
	}, nil
}
