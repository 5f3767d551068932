package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/janusipm/brandvigilante/internal/flagx"
)

// parseEnv overlays values from environment variables. A dotenv file named
// by -env (or ./.env when present) is loaded first; variables already set in
// the process environment win over the file.
func parseEnv(config *Config) {
	loadDotenv(flagx.EnvFileFlag())

	setString(&config.ListenAddr, portAddr(os.Getenv("PORT")))
	setString(&config.Environment, firstEnv("APP_ENV", "NODE_ENV"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))

	setString(&config.DatabaseDSN, os.Getenv("DATABASE_URL"))
	setString(&config.DatabaseHost, os.Getenv("DATABASE_HOST"))
	setString(&config.DatabaseUser, os.Getenv("DATABASE_USER"))
	setString(&config.DatabasePassword, os.Getenv("DATABASE_PASSWORD"))
	setString(&config.DatabaseName, os.Getenv("DATABASE_NAME"))
	setInt(&config.DatabasePoolSize, envInt("DATABASE_POOL_SIZE"))
	setRawDuration(&config.QueryTimeout, envDuration("QUERY_TIMEOUT"))

	setString(&config.AppURL, firstEnv("APP_URL", "ORIGIN"))
	setString(&config.CookieDomain, os.Getenv("COOKIE_DOMAIN"))
	setString(&config.SessionCookieName, os.Getenv("SESSION_COOKIE_NAME"))
	setRawDuration(&config.SessionTTL, envDuration("SESSION_TTL"))
	setString(&config.SecretKey, os.Getenv("SECRET_KEY"))

	setString(&config.GoogleClientID, os.Getenv("GOOGLE_CLIENT_ID"))
	setString(&config.GoogleClientSecret, os.Getenv("GOOGLE_CLIENT_SECRET"))
	setString(&config.GoogleRedirectURL, os.Getenv("GOOGLE_REDIRECT_URI"))

	setString(&config.SMTPHost, os.Getenv("SMTP_HOST"))
	setInt(&config.SMTPPort, envInt("SMTP_PORT"))
	setString(&config.SMTPUser, os.Getenv("SMTP_USER"))
	setString(&config.SMTPPassword, os.Getenv("SMTP_PASSWORD"))
	setString(&config.SMTPFrom, os.Getenv("SMTP_FROM"))
	setString(&config.AdminEmail, os.Getenv("ADMIN_EMAIL"))

	setRawDuration(&config.RateLimitWindow, envDuration("RATE_LIMIT_WINDOW"))
	setInt(&config.RateLimitMax, envInt("RATE_LIMIT_MAX"))
	setString(&config.RedisAddr, os.Getenv("REDIS_ADDR"))

	setString(&config.S3RootUser, os.Getenv("S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
}

func loadDotenv(path string) {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func portAddr(port string) string {
	if port == "" {
		return ""
	}
	return ":" + port
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	return n
}

// envDuration accepts Go durations ("15m") and bare integers as milliseconds.
func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}

func setRawDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
