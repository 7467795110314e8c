package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Valkey    ValkeyConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	Ingestion IngestionConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MigrationsPath string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AuthConfig struct {
	Enabled    bool
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

type IngestionConfig struct {
	StartDelay   time.Duration
	ProcessDelay time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "docfold"),
			Password:       getEnv("DB_PASSWORD", "docfold"),
			Name:           getEnv("DB_NAME", "docfold"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns:       int32(getEnvInt("DB_MIN_CONNS", 5)),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "docfold"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "docfold123"),
			Bucket:    getEnv("MINIO_BUCKET", "docfold"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			Enabled:    getEnvBool("AUTH_ENABLED", true),
			Secret:     getEnv("AUTH_SECRET", ""),
			Issuer:     getEnv("AUTH_ISSUER", "docfold"),
			AccessTTL:  time.Duration(getEnvInt("AUTH_ACCESS_TTL_MINS", 15)) * time.Minute,
			RefreshTTL: time.Duration(getEnvInt("AUTH_REFRESH_TTL_HOURS", 168)) * time.Hour,
			ResetTTL:   time.Duration(getEnvInt("AUTH_RESET_TTL_MINS", 60)) * time.Minute,
		},
		Ingestion: IngestionConfig{
			StartDelay:   time.Duration(getEnvInt("INGESTION_START_DELAY_MS", 1000)) * time.Millisecond,
			ProcessDelay: time.Duration(getEnvInt("INGESTION_PROCESS_DELAY_MS", 5000)) * time.Millisecond,
		},
	}

	if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_ENABLED=true requires AUTH_SECRET")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
