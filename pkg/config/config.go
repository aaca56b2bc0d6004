package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	// Storage selects the cart/product store backend: "postgres" or
	// "memory".
	Storage string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	OTLPEndpoint string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		Storage: getEnv("STORAGE", "postgres"),

		DBHost:     getEnv("DATABASE_HOST", "localhost"),
		DBPort:     getEnvInt("DATABASE_PORT", 5432),
		DBUser:     getEnv("DATABASE_USER", "shopcart"),
		DBPassword: getEnv("DATABASE_PASSWORD", "shopcart"),
		DBName:     getEnv("DATABASE_NAME", "shopcart"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
