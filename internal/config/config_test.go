package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "STORAGE_DRIVER", "CORS_ORIGINS", "REDIS_DB", "IS_PROD"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "disk", cfg.Storage.Driver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IS_PROD", "true")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "course-images")
	t.Setenv("S3_USE_PATH_STYLE", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "course-images", cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
