package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string `mapstructure:"DB_DSN"`
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Environment    string `mapstructure:"ENV"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPPort:       os.Getenv("HTTP_PORT"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

// Addr адрес HTTP сервера
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}
