// Package config handles configuration for the portal server, including
// defaults, .env and environment overlays, a JSON file and command-line flags.
package config

import (
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
)

// Config holds runtime settings for the portal server.
//
// Storage:
//   - StorageDriver: "sqlite", "postgres" or "json".
//   - DatabaseDSN: DSN for the SQL drivers.
//   - JSONStorePath: document file for the json driver.
//
// Sheet import reads SheetExportURL as CSV unless GoogleAPIKey and SheetID
// are both set, in which case the Sheets API is used.
type Config struct {
	HTTPAddr      string
	StorageDriver string
	DatabaseDSN   string
	JSONStorePath string

	SessionSecret string
	SessionMaxAge time.Duration
	CSRFKey       string

	SecretKey                   string
	AccessTokenValidityDuration time.Duration

	AdminPassword  string
	AllowedOrigins []string

	RedisAddr       string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed when keying the login limiter.
	TrustedProxies []string

	SheetExportURL     string
	SheetID            string
	SheetRange         string
	GoogleAPIKey       string
	SheetTimeout       time.Duration
	SheetHeaderRows    int
	SheetMarker        string
	SheetSubjectID     int64
	ImportDeadlineDays int

	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3PublicBaseURL string

	LogLevel        string
	ShutdownTimeout time.Duration

	// random secrets assigned by LoadDefaults, kept to detect that nothing
	// overrode them
	generatedSessionSecret string
	generatedSecretKey     string
}

// DefaultAdminPassword is seeded when no admin password is configured.
const DefaultAdminPassword = "admin"

// LoadDefaults populates Config with development defaults. The session and
// token secrets are random per process, so logins do not survive a restart
// until real secrets are configured.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.StorageDriver = "sqlite"
	c.DatabaseDSN = "file:ukdportal.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.JSONStorePath = "ukd_data.json"

	c.generatedSessionSecret = randomSecret()
	c.SessionSecret = c.generatedSessionSecret
	c.SessionMaxAge = 7 * 24 * time.Hour
	c.CSRFKey = ""

	c.generatedSecretKey = randomSecret()
	c.SecretKey = c.generatedSecretKey
	c.AccessTokenValidityDuration = 15 * time.Minute

	c.AdminPassword = DefaultAdminPassword
	c.AllowedOrigins = []string{"http://localhost:8080"}

	c.RedisAddr = ""
	c.LoginRateLimit = 10
	c.LoginRateWindow = 5 * time.Minute

	c.SheetExportURL = "https://docs.google.com/spreadsheets/d/1OmPRt9XXVSnn7lcruKcThq6pVnzO_muoRmePd_W1Ojk/export?format=csv"
	c.SheetRange = "A:Z"
	c.SheetTimeout = 15 * time.Second
	c.SheetHeaderRows = 4
	c.SheetMarker = "н"
	c.ImportDeadlineDays = 14

	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "avatars"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""

	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

func randomSecret() string {
	s, err := common.MakeRandHexString(32)
	if err != nil {
		panic(err)
	}
	return s
}

// Warnings lists settings left at values unfit for production.
func (c *Config) Warnings() []string {
	var out []string
	if c.SessionSecret == "" || c.SessionSecret == c.generatedSessionSecret {
		out = append(out, "session secret not configured (UKD_SESSION_SECRET); using a random one, sessions end on restart")
	}
	if c.SecretKey == "" || c.SecretKey == c.generatedSecretKey {
		out = append(out, "token secret not configured (UKD_SECRET_KEY); using a random one, API tokens end on restart")
	}
	if c.AdminPassword == DefaultAdminPassword {
		out = append(out, "seeded admin uses the default password; set UKD_ADMIN_PASSWORD")
	}
	if c.CSRFKey == "" {
		out = append(out, "CSRF protection is off; set UKD_CSRF_KEY")
	}
	return out
}

// S3Enabled reports whether avatar uploads to object storage are configured.
func (c *Config) S3Enabled() bool {
	return c.S3BaseEndpoint != "" && c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from .env and the environment, an optional JSON file and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
