package config_test

import (
	"testing"
	"time"

	"rentals/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":3002", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.False(t, cfg.AuthStrictRoles)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "host=localhost user=postgres password=postgres dbname=rentals port=5432 sslmode=disable", cfg.Database.Postgres())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DB_DSN", "rentals.db")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_EXPIRES_IN", "90m")
	v.Set("AUTH_STRICT_ROLES", "true")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "rentals.db", cfg.Database.Postgres())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 90*time.Minute, cfg.JWT.ExpiresIn)
	assert.True(t, cfg.AuthStrictRoles)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("JWT_EXPIRES_IN", "soon")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err = config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("APP_ENV", "production")
	_, err = config.FromViper(v)
	assert.ErrorContains(t, err, "JWT_SECRET")
}
