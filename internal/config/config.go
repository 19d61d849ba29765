package config

import (
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/lostiburones/cobranza-service/internal/financing"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	MySQL     MySQLConfig
	Financing financing.Config
}

type ServerConfig struct {
	Port string
	Host string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8074"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 100),
		},
		MySQL: MySQLConfig{
			Host:     getEnv("MYSQL_HOST", "localhost:3306"),
			User:     getEnv("MYSQL_USER", "tiburones"),
			Password: getEnv("MYSQL_PASSWORD", "tiburones123"),
			Database: getEnv("MYSQL_DATABASE", "tiburones"),
		},
		Financing: loadFinancing(),
	}
}

func loadFinancing() financing.Config {
	cfg := financing.DefaultConfig()
	cfg.InstallmentPeriodDays = getEnvAsInt("INSTALLMENT_PERIOD_DAYS", cfg.InstallmentPeriodDays)
	cfg.SeverityThresholds.Critical = getEnvAsInt("SEVERITY_CRITICAL", cfg.SeverityThresholds.Critical)
	cfg.SeverityThresholds.High = getEnvAsInt("SEVERITY_HIGH", cfg.SeverityThresholds.High)
	cfg.SeverityThresholds.Medium = getEnvAsInt("SEVERITY_MEDIUM", cfg.SeverityThresholds.Medium)

	if raw := os.Getenv("RECEIPT_REQUIRED_METHODS"); raw != "" {
		methods := make(map[string]bool)
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				methods[m] = true
			}
		}
		cfg.ReceiptRequiredMethods = methods
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
