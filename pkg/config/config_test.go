package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "./uploads", cfg.Uploads.Dir)
	assert.Equal(t, "/uploads", cfg.Uploads.URLPrefix)
	assert.EqualValues(t, 5*1024*1024, cfg.Uploads.MaxFileSizeBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif", "image/webp"}, cfg.Uploads.AllowedMIMEs)
	assert.True(t, cfg.Activity.Enabled)
	assert.Empty(t, cfg.Activity.RedactFields)
	assert.Zero(t, cfg.Dashboard.CacheTTL)
	assert.Equal(t, 4, cfg.Dashboard.QueryConcurrency)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "PGX")
	v.Set("DASHBOARD_CACHE_TTL", "90s")
	v.Set("ACTIVITY_REDACT_FIELDS", " email, dob ,")
	v.Set("UPLOADS_MAX_FILE_SIZE", -1)

	cfg := fromViper(v)

	assert.Equal(t, DriverPgx, cfg.Database.Driver)
	assert.Equal(t, 90*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"email", "dob"}, cfg.Activity.RedactFields)
	assert.EqualValues(t, 5*1024*1024, cfg.Uploads.MaxFileSizeBytes)
}

func TestFromViperUnknownDriverFallsBack(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "mysql")

	assert.Equal(t, DriverPostgres, fromViper(v).Database.Driver)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("nope", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
