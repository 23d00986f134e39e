package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "MONGO_DATABASE", "JWT_SECRET", "METRICS_PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "forum", cfg.MongoDatabase)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONGO_DATABASE", "notes")

	cfg := Load()
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "notes", cfg.MongoDatabase)
	assert.False(t, cfg.IsDevelopment())
}

func TestInitDBRequiresConnectionStrings(t *testing.T) {
	_, err := InitDB(t.Context(), &Config{MongoURI: "mongodb://localhost"})
	assert.ErrorContains(t, err, "POSTGRES_CONN_STR")

	_, err = InitDB(t.Context(), &Config{PostgresConnStr: "postgres://localhost"})
	assert.ErrorContains(t, err, "MONGO_URI")
}
