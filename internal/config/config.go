// Package config loads application settings from environment variables.
// Every field has a default except where marked required; all values are
// validated at startup so misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Table    TableConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout bounds reading a request including the upload body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is 0 by default so datastar event streams are not cut off
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the per-request middleware timeout (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// UploadConfig holds CSV upload settings.
type UploadConfig struct {
	// MaxFileSize is the largest accepted file in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the number of files read at once across sessions (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a load waits for a free slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`
}

// TableConfig holds table behaviour settings.
type TableConfig struct {
	// SortColumn is the zero-based column sorted by default (default: 3)
	SortColumn int `env:"TABLE_SORT_COLUMN" default:"3"`

	// ReapplyFilter keeps the search query active across sorts and loads (default: true)
	ReapplyFilter bool `env:"TABLE_REAPPLY_FILTER" default:"true"`

	// Parser selects the CSV loader: naive or quoted (default: naive)
	Parser string `env:"TABLE_PARSER" default:"naive"`

	// MaxRows rejects files with more data rows; sorting is quadratic in the
	// worst case. 0 disables the cap (default: 5000)
	MaxRows int `env:"TABLE_MAX_ROWS" default:"5000"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	// Secret signs the session cookie. A random one is generated when empty,
	// which invalidates sessions on restart.
	Secret string `env:"SESSION_SECRET"`

	// CookieName is the session cookie name (default: csvtable)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"csvtable"`

	// MaxAge is the cookie lifetime (default: 24h)
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"24h"`

	// IdleTimeout drops a session's table after this much inactivity (default: 1h)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"1h"`

	// SweepInterval is how often idle sessions are checked (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// SecureCookie sets the Secure flag on the cookie (default: false)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 600; each keystroke is a request)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"600"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honoured
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP sends a Content-Security-Policy header (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
