package config

import (
	"context"
	"os"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	MetricsPort             string
	LogLevel                string
}

// Load reads the configuration from the environment, after merging a .env file if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.For(context.Background()).Info("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "3000"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "forum"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
