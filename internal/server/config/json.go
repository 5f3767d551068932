package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/janusipm/brandvigilante/internal/flagx"
	"github.com/janusipm/brandvigilante/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	ListenAddr        string         `json:"listen_addr"`
	Environment       string         `json:"environment"`
	LogLevel          string         `json:"log_level"`
	DatabaseDSN       string         `json:"database_dsn"`
	DatabasePoolSize  int            `json:"database_pool_size"`
	QueryTimeout      timex.Duration `json:"query_timeout"`
	AppURL            string         `json:"app_url"`
	CookieDomain      string         `json:"cookie_domain"`
	SessionCookieName string         `json:"session_cookie_name"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	SecretKey         string         `json:"secret_key"`
	GoogleClientID    string         `json:"google_client_id"`
	GoogleSecret      string         `json:"google_client_secret"`
	GoogleRedirectURL string         `json:"google_redirect_url"`
	SMTPHost          string         `json:"smtp_host"`
	SMTPPort          int            `json:"smtp_port"`
	SMTPUser          string         `json:"smtp_user"`
	SMTPPassword      string         `json:"smtp_password"`
	SMTPFrom          string         `json:"smtp_from"`
	AdminEmail        string         `json:"admin_email"`
	RateLimitWindow   timex.Duration `json:"rate_limit_window"`
	RateLimitMax      int            `json:"rate_limit_max"`
	RedisAddr         string         `json:"redis_addr"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config. No flag means
// nothing is loaded. An unreadable or invalid file panics, since the server
// cannot start on a config it was explicitly pointed at.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DatabasePoolSize, c.DatabasePoolSize)
	setDuration(&config.QueryTimeout, c.QueryTimeout)
	setString(&config.AppURL, c.AppURL)
	setString(&config.CookieDomain, c.CookieDomain)
	setString(&config.SessionCookieName, c.SessionCookieName)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.AdminEmail, c.AdminEmail)
	setDuration(&config.RateLimitWindow, c.RateLimitWindow)
	setInt(&config.RateLimitMax, c.RateLimitMax)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
