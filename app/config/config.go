package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tasklist/app/store"

	"github.com/joho/godotenv"
)

// Config holds everything the API server and the CLI client read from the
// environment.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	Client ClientConfig
}

// ServerConfig controls how the API is hosted.
type ServerConfig struct {
	// Development opens CORS and listens on Port instead of serving
	// platform invocations.
	Development bool   `env:"DEVELOPMENT"`
	Port        int    `env:"PORT"`
	LogLevel    string `env:"LOG_LEVEL"`
}

// StoreConfig selects and locates the task store.
type StoreConfig struct {
	Backend       string `env:"TASK_STORE"`
	Table         string `env:"TASKS_TABLE"`
	Region        string `env:"AWS_REGION"`
	Neo4jURI      string `env:"NEO4J_URI"`
	Neo4jUser     string `env:"NEO4J_USER"`
	Neo4jPassword string `env:"NEO4J_PASSWORD"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH"`
}

// AuthConfig names the identity provider, credential exchange and signing scope.
type AuthConfig struct {
	Region         string `env:"AWS_REGION"`
	UserPoolID     string `env:"COGNITO_USER_POOL_ID"`
	ClientID       string `env:"COGNITO_USER_POOL_APP_CLIENT_ID"`
	IdentityPoolID string `env:"COGNITO_IDENTITY_POOL_ID"`
	SigningService string `env:"SIGNING_SERVICE"`
}

// ClientConfig holds CLI client settings.
type ClientConfig struct {
	APIURL      string        `env:"API_URL"`
	SessionFile string        `env:"SESSION_FILE"`
	Timeout     time.Duration `env:"CLIENT_TIMEOUT"`
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     3001,
			LogLevel: "info",
		},
		Store: StoreConfig{
			Backend:    store.BackendDynamo,
			Table:      "tasks",
			Region:     "us-east-1",
			Neo4jURI:   "neo4j://localhost:7687",
			Neo4jUser:  "neo4j",
			SQLitePath: "tasks.db",
		},
		Auth: AuthConfig{
			Region:         "us-east-1",
			SigningService: "lambda",
		},
		Client: ClientConfig{
			APIURL:      "http://localhost:3001/task",
			SessionFile: filepath.Join(os.TempDir(), "tasklist-session.json"),
			Timeout:     30 * time.Second,
		},
	}
}

// Load reads an optional .env file from the working directory, then the
// process environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := NewConfig()
	cfg.LoadFromEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnvironment overrides defaults with any variables that are set.
func (c *Config) LoadFromEnvironment() {
	// any value other than 0 or false turns development mode on
	if dev := os.Getenv("DEVELOPMENT"); dev != "" {
		c.Server.Development = dev != "0" && !strings.EqualFold(dev, "false")
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Server.LogLevel = level
	}
	if os.Getenv("DEBUG") != "" {
		c.Server.LogLevel = "debug"
	}

	setString(&c.Store.Backend, "TASK_STORE")
	setString(&c.Store.Table, "TASKS_TABLE")
	setString(&c.Store.Neo4jURI, "NEO4J_URI")
	setString(&c.Store.Neo4jUser, "NEO4J_USER")
	setString(&c.Store.Neo4jPassword, "NEO4J_PASSWORD")
	setString(&c.Store.DatabaseURL, "DATABASE_URL")
	setString(&c.Store.SQLitePath, "SQLITE_PATH")

	if region := os.Getenv("AWS_REGION"); region != "" {
		c.Store.Region = region
		c.Auth.Region = region
	}
	setString(&c.Auth.UserPoolID, "COGNITO_USER_POOL_ID")
	setString(&c.Auth.ClientID, "COGNITO_USER_POOL_APP_CLIENT_ID")
	setString(&c.Auth.IdentityPoolID, "COGNITO_IDENTITY_POOL_ID")
	setString(&c.Auth.SigningService, "SIGNING_SERVICE")

	setString(&c.Client.APIURL, "API_URL")
	setString(&c.Client.SessionFile, "SESSION_FILE")
	if timeout := os.Getenv("CLIENT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Client.Timeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}

	switch c.Store.Backend {
	case store.BackendDynamo:
		if c.Store.Table == "" {
			return &ConfigError{Field: "store.table", Message: "table name cannot be empty"}
		}
	case store.BackendNeo4j:
		if c.Store.Neo4jURI == "" {
			return &ConfigError{Field: "store.neo4j_uri", Message: "neo4j uri cannot be empty"}
		}
	case store.BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return &ConfigError{Field: "store.database_url", Message: "DATABASE_URL is required for the postgres store"}
		}
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return &ConfigError{Field: "store.sqlite_path", Message: "sqlite path cannot be empty"}
		}
	default:
		return &ConfigError{Field: "store.backend", Message: "unknown task store " + strconv.Quote(c.Store.Backend)}
	}

	if c.Client.Timeout <= 0 {
		return &ConfigError{Field: "client.timeout", Message: "client timeout must be positive"}
	}
	return nil
}

// SigningEnabled reports whether the client has what it needs to sign requests.
func (a AuthConfig) SigningEnabled() bool {
	return a.UserPoolID != "" && a.ClientID != "" && a.IdentityPoolID != ""
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
