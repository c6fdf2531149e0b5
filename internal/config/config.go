package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the backend base URLs.
const (
	EnvNestJSURL = "VITE_NESTJS_API_URL"
	EnvPythonURL = "VITE_PYTHON_API_URL"
)

// Default backend origins.
const (
	DefaultNestJSURL = "http://localhost:3000/api"
	DefaultPythonURL = "http://localhost:8000/api"
)

// DefaultCheckInterval is how often a live session is re-validated against the server.
const DefaultCheckInterval = 15 * time.Minute

// BackendConfig locates the two backends the console talks to.
type BackendConfig struct {
	NestJSURL       string        `yaml:"nestjs_url"`       // primary API (auth, users, documents, ingestion)
	PythonURL       string        `yaml:"python_url"`       // Q&A and selection API
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // per-request timeout for regular calls
	ValidateTimeout time.Duration `yaml:"validate_timeout"` // bound on /auth/validate-token
}

// DefaultBackendConfig returns the local development defaults.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		NestJSURL:       DefaultNestJSURL,
		PythonURL:       DefaultPythonURL,
		RequestTimeout:  30 * time.Second,
		ValidateTimeout: 10 * time.Second,
	}
}

// ApplyEnv overrides backend URLs from VITE_NESTJS_API_URL and VITE_PYTHON_API_URL.
func (c *BackendConfig) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvNestJSURL)); v != "" {
		c.NestJSURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPythonURL)); v != "" {
		c.PythonURL = v
	}
}

// ServerConfig holds configuration for the web console.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`           // Listen address (default ":8080")
	LogLevel      string        `yaml:"log_level"`      // debug, info, warn, error
	LogFormat     string        `yaml:"log_format"`     // text, json
	TokenStore    string        `yaml:"token_store"`    // sqlite, redis, memory
	DBPath        string        `yaml:"db"`             // SQLite path (default ~/.jarvis/jarvis.db)
	RedisAddr     string        `yaml:"redis_addr"`     // host:port when TokenStore is redis
	SecureCookies bool          `yaml:"secure_cookies"` // set Secure on cookies (HTTPS)
	ClientIdle    time.Duration `yaml:"client_idle"`    // drop clients not seen for this long
	MaxClients    int           `yaml:"max_clients"`    // clients held in memory at most
	CheckInterval time.Duration `yaml:"check_interval"` // periodic re-validation
	CORSOrigins   []string      `yaml:"cors_origins"`   // origins allowed on /session endpoints

	Backends BackendConfig `yaml:"backends"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		TokenStore:    "sqlite",
		ClientIdle:    2 * time.Hour,
		MaxClients:    10000,
		CheckInterval: DefaultCheckInterval,
		Backends:      DefaultBackendConfig(),
	}
}

// LoadEnv loads a .env file into the process environment if one exists.
// Variables already set are left untouched.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadFile overlays YAML settings from path onto cfg. Absent keys keep their value.
func LoadFile(path string, cfg *ServerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides server settings from JARVIS_* variables, then the
// backend URLs. JARVIS_CORS_ORIGINS is a comma-separated list.
func (c *ServerConfig) ApplyEnv() {
	for name, dst := range map[string]*string{
		"JARVIS_ADDR":        &c.Addr,
		"JARVIS_LOG_LEVEL":   &c.LogLevel,
		"JARVIS_LOG_FORMAT":  &c.LogFormat,
		"JARVIS_TOKEN_STORE": &c.TokenStore,
		"JARVIS_DB":          &c.DBPath,
		"JARVIS_REDIS_ADDR":  &c.RedisAddr,
	} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("JARVIS_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, p := range strings.Split(v, ",") {
			if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	c.Backends.ApplyEnv()
}
