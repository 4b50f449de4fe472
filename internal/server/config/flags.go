package config

import (
	"flag"
	"os"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-storage str  storage driver: sqlite, postgres or json
//	-d string     database DSN
//	-f string     JSON store file
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g. "15m")
//	-admin-password string  password for the seeded admin account
//	-origins str  comma separated CORS origins
//	-redis str    Redis address for the login limiter
//	-sheet-url    CSV export URL of the attendance sheet
//	-u/-p/-b/-g/-e  S3 user, password, bucket, region and endpoint
//	-l string     log level
//
// The args are filtered with flagx.FilterArgs first, so flags meant for
// other components (or "go test") never reach this flag set.
func parseFlags(config *Config) {
	known := []string{"-a", "-storage", "-d", "-f", "-s", "-t", "-admin-password", "-origins",
		"-redis", "-sheet-url", "-u", "-p", "-b", "-g", "-e", "-l"}
	args := flagx.FilterArgs(os.Args[1:], known)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "storage", config.StorageDriver, "storage driver (sqlite, postgres, json)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JSONStorePath, "f", config.JSONStorePath, "JSON store file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.AdminPassword, "admin-password", config.AdminPassword, "seeded admin password")
	origins := fs.String("origins", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address for rate limiting")
	fs.StringVar(&config.SheetExportURL, "sheet-url", config.SheetExportURL, "attendance sheet CSV export URL")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AllowedOrigins = splitList(*origins)
}
