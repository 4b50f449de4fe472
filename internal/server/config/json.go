package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ukd-dev/ukdportal/internal/flagx"
	"github.com/ukd-dev/ukdportal/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "15s" and integer nanoseconds are accepted.
// Absent keys leave the current value untouched.
type JsonConfig struct {
	HTTPAddr      string         `json:"http_addr"`
	StorageDriver string         `json:"storage_driver"`
	DatabaseDSN   string         `json:"database_dsn"`
	JSONStorePath string         `json:"json_store_path"`
	SessionSecret string         `json:"session_secret"`
	SessionMaxAge timex.Duration `json:"session_max_age"`
	CSRFKey       string         `json:"csrf_key"`

	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`

	AdminPassword  string   `json:"admin_password"`
	AllowedOrigins []string `json:"allowed_origins"`

	RedisAddr       string         `json:"redis_addr"`
	LoginRateLimit  int            `json:"login_rate_limit"`
	LoginRateWindow timex.Duration `json:"login_rate_window"`
	TrustedProxies  []string       `json:"trusted_proxies"`

	SheetExportURL     string         `json:"sheet_export_url"`
	SheetID            string         `json:"sheet_id"`
	SheetRange         string         `json:"sheet_range"`
	GoogleAPIKey       string         `json:"google_api_key"`
	SheetTimeout       timex.Duration `json:"sheet_timeout"`
	SheetHeaderRows    *int           `json:"sheet_header_rows"`
	SheetMarker        string         `json:"sheet_marker"`
	SheetSubjectID     int64          `json:"sheet_subject_id"`
	ImportDeadlineDays int            `json:"import_deadline_days"`

	S3RootUser      string `json:"s3_root_user"`
	S3RootPassword  string `json:"s3_root_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3PublicBaseURL string `json:"s3_public_base_url"`

	LogLevel        string         `json:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the file named by -c or
// -config. Without the flag nothing is loaded. An unreadable file or invalid
// JSON panics, as the server cannot start with a half-read configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JSONStorePath, c.JSONStorePath)
	setString(&config.SessionSecret, c.SessionSecret)
	setDuration(&config.SessionMaxAge, c.SessionMaxAge)
	setString(&config.CSRFKey, c.CSRFKey)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setString(&config.AdminPassword, c.AdminPassword)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.RedisAddr, c.RedisAddr)
	if c.LoginRateLimit > 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	setDuration(&config.LoginRateWindow, c.LoginRateWindow)
	if len(c.TrustedProxies) > 0 {
		config.TrustedProxies = c.TrustedProxies
	}
	setString(&config.SheetExportURL, c.SheetExportURL)
	setString(&config.SheetID, c.SheetID)
	setString(&config.SheetRange, c.SheetRange)
	setString(&config.GoogleAPIKey, c.GoogleAPIKey)
	setDuration(&config.SheetTimeout, c.SheetTimeout)
	// zero header rows is meaningful, hence the pointer
	if c.SheetHeaderRows != nil {
		config.SheetHeaderRows = *c.SheetHeaderRows
	}
	setString(&config.SheetMarker, c.SheetMarker)
	if c.SheetSubjectID > 0 {
		config.SheetSubjectID = c.SheetSubjectID
	}
	if c.ImportDeadlineDays > 0 {
		config.ImportDeadlineDays = c.ImportDeadlineDays
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
