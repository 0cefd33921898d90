package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{SinkLog}, cfg.Orders.Sinks)
	assert.False(t, cfg.Orders.ResetContactOnSubmit)
	assert.Equal(t, "session_token", cfg.Session.CookieName)
	assert.Equal(t, "EUR", cfg.Catalog.Currency)
	assert.True(t, cfg.IsDevelopment())
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ORDER_SINKS", " log , email,")
	t.Setenv("ORDER_RESET_CONTACT", "true")
	t.Setenv("GEO_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "production")

	cfg := FromEnv()

	assert.Equal(t, []string{SinkLog, SinkEmail}, cfg.Orders.Sinks)
	assert.True(t, cfg.Orders.ResetContactOnSubmit)
	assert.Equal(t, 3*time.Second, cfg.Geolocation.Timeout)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.HasSink(SinkEmail))
	assert.False(t, cfg.HasSink(SinkPostgres))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "short session secret",
			mutate:  func(c *Config) { c.Session.Secret = "short" },
			wantErr: "SESSION_SECRET",
		},
		{
			name:    "unknown sink",
			mutate:  func(c *Config) { c.Orders.Sinks = []string{"kafka"} },
			wantErr: "unknown order sink",
		},
		{
			name:    "no sinks",
			mutate:  func(c *Config) { c.Orders.Sinks = nil },
			wantErr: "ORDER_SINKS",
		},
		{
			name: "postgres sink without database",
			mutate: func(c *Config) {
				c.Orders.Sinks = []string{SinkPostgres}
				c.Database.Host = ""
			},
			wantErr: "DB_HOST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
