package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
	SMTP       SMTPConfig
	Redis      RedisConfig
	Queue      QueueConfig
	Scheduler  SchedulerConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QueueConfig struct {
	URL      string
	Exchange string
}

// SchedulerConfig controls the booking lifecycle sweep. The sweep runs in a
// single fixed timezone so period buckets and staleness cutoffs do not shift
// with the host clock.
type SchedulerConfig struct {
	SweepInterval time.Duration
	Timezone      string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         envStr("PORT", "8088"),
			Env:          envStr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envStr("DATABASE_DSN", "stayhub:stayhub@tcp(localhost:3306)/stayhub?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envStr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envStr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "stayhub",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: envStr("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    envStr("CLOUDINARY_API_KEY", ""),
			APISecret: envStr("CLOUDINARY_API_SECRET", ""),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: envStr("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		SMTP: SMTPConfig{
			Host:     envStr("SMTP_HOST", ""),
			Port:     envStr("SMTP_PORT", "587"),
			Username: envStr("SMTP_USERNAME", ""),
			Password: envStr("SMTP_PASSWORD", ""),
			From:     envStr("SMTP_FROM", "no-reply@stayhub.app"),
		},
		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", ""),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},
		Queue: QueueConfig{
			URL:      envStr("AMQP_URL", ""),
			Exchange: envStr("AMQP_EXCHANGE", "stayhub.bookings"),
		},
		Scheduler: SchedulerConfig{
			SweepInterval: envDur("SCHEDULER_SWEEP_INTERVAL", 30*time.Minute),
			Timezone:      envStr("SCHEDULER_TIMEZONE", "UTC"),
		},
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
