package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sqlite", c.StorageDriver)
	assert.Equal(t, "file:ukdportal.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.LoginRateLimit)
	assert.Equal(t, 5*time.Minute, c.LoginRateWindow)
	assert.Equal(t, 4, c.SheetHeaderRows)
	assert.Equal(t, "н", c.SheetMarker)
	assert.Equal(t, 14, c.ImportDeadlineDays)
	assert.Equal(t, 15*time.Second, c.SheetTimeout)
	assert.False(t, c.S3Enabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Len(t, c.SecretKey, 64)
}

func TestLoadDefaults_RandomSecrets(t *testing.T) {
	var a, b Config
	a.LoadDefaults()
	b.LoadDefaults()

	assert.Len(t, a.SessionSecret, 64)
	assert.NotEqual(t, a.SessionSecret, b.SessionSecret)
	assert.NotEqual(t, a.SecretKey, b.SecretKey)
	assert.NotEqual(t, a.SessionSecret, a.SecretKey)
}

func TestWarnings(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Len(t, c.Warnings(), 4)

	c.SessionSecret = "configured-session-secret-0123456789"
	c.SecretKey = "configured-token-secret"
	c.AdminPassword = "Str0ng!"
	c.CSRFKey = "0123456789abcdef0123456789abcdef"
	assert.Empty(t, c.Warnings())

	c.SecretKey = ""
	assert.Len(t, c.Warnings(), 1)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"http_addr":  ":7000",
		"secret_key": "from-json",
		"redis_addr": "redis:6379",
	})
	t.Setenv("UKD_SECRET_KEY", "from-env")
	t.Setenv("UKD_LOG_LEVEL", "debug")
	t.Chdir(dir)

	os.Args = []string{"testbin", "-config", path, "-a", ":9000"}
	c := LoadConfig()

	assert.Equal(t, ":9000", c.HTTPAddr, "flags win over json")
	assert.Equal(t, "from-json", c.SecretKey, "json wins over env")
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "redis:6379", c.RedisAddr)
}
