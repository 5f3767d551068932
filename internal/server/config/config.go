// Package config handles configuration for the server, layering defaults,
// an optional JSON file, environment variables (with .env support) and
// command-line flags, in that order.
package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the BrandVigilante server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP listener.
//   - Environment: "development" or "production"; production turns on Secure cookies.
//   - DatabaseDSN: PostgreSQL DSN (pgx). When empty it is built from the Database* parts.
//   - DatabasePoolSize: max open connections; 0 picks 1 in development and 10 otherwise.
//   - AppURL: public origin used in emailed links and the same-origin form check.
//   - SecretKey: HMAC secret signing the OAuth transient cookies.
//   - SessionTTL / SessionCookieName / CookieDomain: session cookie settings.
//   - RateLimitWindow / RateLimitMax: fixed-window login throttling.
//   - RedisAddr: when set, rate-limit buckets live in Redis instead of process memory.
//   - S3*: object storage used for listing exports.
type Config struct {
	ListenAddr  string
	Environment string
	LogLevel    string

	DatabaseDSN      string
	DatabaseHost     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabasePoolSize int
	QueryTimeout     time.Duration

	AppURL            string
	CookieDomain      string
	SessionCookieName string
	SessionTTL        time.Duration
	SecretKey         string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	RateLimitWindow time.Duration
	RateLimitMax    int
	RedisAddr       string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret and S3 credentials are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.Environment = EnvDevelopment
	c.LogLevel = "info"

	c.DatabaseHost = "localhost"
	c.DatabaseUser = "postgres"
	c.DatabasePassword = "postgres"
	c.DatabaseName = "brandvigilante"
	c.QueryTimeout = 5 * time.Second

	c.AppURL = "http://localhost:3000"
	c.SessionCookieName = "session"
	c.SessionTTL = 30 * 24 * time.Hour
	c.SecretKey = "secretKey"

	c.SMTPPort = 587

	c.RateLimitWindow = 15 * time.Minute
	c.RateLimitMax = 5

	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "exports"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DSN returns DatabaseDSN or assembles one from the discrete parts.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     c.DatabaseHost,
		Path:     "/" + c.DatabaseName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// PoolSize returns the configured pool size or the environment default.
func (c *Config) PoolSize() int {
	if c.DatabasePoolSize > 0 {
		return c.DatabasePoolSize
	}
	if c.IsProduction() {
		return 10
	}
	return 1
}

// MailFrom returns SMTPFrom, falling back to SMTPUser.
func (c *Config) MailFrom() string {
	if c.SMTPFrom != "" {
		return c.SMTPFrom
	}
	return c.SMTPUser
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SessionCookieName == "" {
		return fmt.Errorf("session cookie name must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window and max must be positive")
	}
	if _, err := url.Parse(c.AppURL); err != nil {
		return fmt.Errorf("app url: %w", err)
	}
	if c.IsProduction() && c.SecretKey == "secretKey" {
		return fmt.Errorf("secret key must be set in production")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
