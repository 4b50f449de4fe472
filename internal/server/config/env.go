package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ukd-dev/ukdportal/internal/flagx"
)

const envPrefix = "UKD_"

// parseEnv loads an optional dotenv file (-env, default ".env") and then
// overlays every UKD_* variable that is set. Variables already present in
// the process environment win over the file.
func parseEnv(config *Config) {
	file := flagx.EnvFileFlag()
	explicit := file != ""
	if !explicit {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	getString("HTTP_ADDR", &config.HTTPAddr)
	getString("STORAGE_DRIVER", &config.StorageDriver)
	getString("DATABASE_DSN", &config.DatabaseDSN)
	getString("JSON_STORE_PATH", &config.JSONStorePath)
	getString("SESSION_SECRET", &config.SessionSecret)
	getDuration("SESSION_MAX_AGE", &config.SessionMaxAge)
	getString("CSRF_KEY", &config.CSRFKey)
	getString("SECRET_KEY", &config.SecretKey)
	getDuration("ACCESS_TOKEN_VALIDITY", &config.AccessTokenValidityDuration)
	getString("ADMIN_PASSWORD", &config.AdminPassword)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	getString("REDIS_ADDR", &config.RedisAddr)
	getInt("LOGIN_RATE_LIMIT", &config.LoginRateLimit)
	getDuration("LOGIN_RATE_WINDOW", &config.LoginRateWindow)
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		config.TrustedProxies = splitList(v)
	}
	getString("SHEET_EXPORT_URL", &config.SheetExportURL)
	getString("SHEET_ID", &config.SheetID)
	getString("SHEET_RANGE", &config.SheetRange)
	getString("GOOGLE_API_KEY", &config.GoogleAPIKey)
	getDuration("SHEET_TIMEOUT", &config.SheetTimeout)
	getInt("SHEET_HEADER_ROWS", &config.SheetHeaderRows)
	getString("SHEET_MARKER", &config.SheetMarker)
	if v, ok := lookup("SHEET_SUBJECT_ID"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.SheetSubjectID = n
		}
	}
	getInt("IMPORT_DEADLINE_DAYS", &config.ImportDeadlineDays)
	getString("S3_ROOT_USER", &config.S3RootUser)
	getString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	getString("S3_BUCKET", &config.S3Bucket)
	getString("S3_REGION", &config.S3Region)
	getString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	getString("S3_PUBLIC_BASE_URL", &config.S3PublicBaseURL)
	getString("LOG_LEVEL", &config.LogLevel)
	getDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func getString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// malformed numbers and durations keep the previous value
func getInt(key string, dst *int) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func getDuration(key string, dst *time.Duration) {
	if v, ok := lookup(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
