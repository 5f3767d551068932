package config

import (
	"flag"
	"os"

	"github.com/janusipm/brandvigilante/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-d string   PostgreSQL DSN
//	-s string   secret key for signed cookies
//	-u string   public app URL
//	-r string   redis address for rate limiting
//	-l string   log level
//	-m int      login attempts per rate-limit window
//
// Args are filtered through flagx.FilterArgs first so flags owned by other
// components (-c, -env) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-u", "-r", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AppURL, "u", config.AppURL, "public app URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.RateLimitMax, "m", config.RateLimitMax, "max login attempts per window")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
