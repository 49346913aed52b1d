package config

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tasklist/app/models"
	"tasklist/app/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.False(t, cfg.Server.Development)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, store.BackendDynamo, cfg.Store.Backend)
	assert.Equal(t, "tasks", cfg.Store.Table)
	assert.Equal(t, "lambda", cfg.Auth.SigningService)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	t.Setenv("PORT", "8080")
	t.Setenv("TASK_STORE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/dev.db")
	t.Setenv("AWS_REGION", "eu-west-2")
	t.Setenv("COGNITO_USER_POOL_ID", "eu-west-2_abc")
	t.Setenv("COGNITO_USER_POOL_APP_CLIENT_ID", "client")
	t.Setenv("COGNITO_IDENTITY_POOL_ID", "eu-west-2:pool")
	t.Setenv("API_URL", "https://example.lambda-url.eu-west-2.on.aws/task")
	t.Setenv("CLIENT_TIMEOUT", "5s")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Server.Development)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/dev.db", cfg.Store.SQLitePath)
	assert.Equal(t, "eu-west-2", cfg.Store.Region)
	assert.Equal(t, "eu-west-2", cfg.Auth.Region)
	assert.True(t, cfg.Auth.SigningEnabled())
	assert.Equal(t, "https://example.lambda-url.eu-west-2.on.aws/task", cfg.Client.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
}

func TestDevelopmentFlagValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"yes", true},
		{"0", false},
		{"FALSE", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DEVELOPMENT", tt.value)
			cfg := NewConfig()
			cfg.LoadFromEnvironment()
			assert.Equal(t, tt.want, cfg.Server.Development)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"postgres without url", func(c *Config) { c.Store.Backend = store.BackendPostgres }, "store.database_url"},
		{"empty table", func(c *Config) { c.Store.Table = "" }, "store.table"},
		{"sqlite without path", func(c *Config) {
			c.Store.Backend = store.BackendSQLite
			c.Store.SQLitePath = ""
		}, "store.sqlite_path"},
		{"zero timeout", func(c *Config) { c.Client.Timeout = 0 }, "client.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestSigningEnabled(t *testing.T) {
	assert.False(t, AuthConfig{}.SigningEnabled())
	assert.False(t, AuthConfig{UserPoolID: "p", ClientID: "c"}.SigningEnabled())
	assert.True(t, AuthConfig{UserPoolID: "p", ClientID: "c", IdentityPoolID: "i"}.SigningEnabled())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	logger := NewLogger(io.Discard, "info")

	s, err := OpenStore(ctx, StoreConfig{Backend: store.BackendSQLite, SQLitePath: ":memory:"}, logger)
	require.NoError(t, err)
	defer s.Close(ctx)

	created, err := s.Put(ctx, models.Task{Name: "Buy milk"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), StoreConfig{Backend: "redis"}, NewLogger(io.Discard, "info"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "store.backend", cfgErr.Field)
}
