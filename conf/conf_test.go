package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.APIServer.Port)
	assert.Equal(t, "arenax", cfg.APIServer.Name)
	assert.Equal(t, 30*time.Second, cfg.APIServer.RequestTimeout)
	assert.Equal(t, "X-Arenax-Trace-Id", cfg.APIServer.Trace.TraceHeader)
	assert.Equal(t, "sqlite", cfg.DB.Dialect)
	assert.Equal(t, "memory", cfg.EventBus.Mode)
	assert.Equal(t, "GHS", cfg.Payment.Currency)
	assert.Equal(t, int64(5<<20), cfg.MediaStorage.MaxSize)
	assert.Equal(t, 10*time.Minute, cfg.Biz.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.Events.KeepAlive)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  request_timeout: 5s
  cors:
    enabled: true
    allowed_origins: ["https://arenax.example.com"]
db:
  dialect: postgres
  dsn: postgres://arenax@localhost/arenax
eventbus:
  mode: redis
  redis:
    addr: localhost:6379
payment:
  currency: ngn
biz:
  verify_cron: ""
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIServer.Port)
	assert.Equal(t, 5*time.Second, cfg.APIServer.RequestTimeout)
	assert.True(t, cfg.APIServer.CORS.Enabled)
	assert.Equal(t, []string{"https://arenax.example.com"}, cfg.APIServer.CORS.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.DB.Dialect)
	assert.Equal(t, "redis", cfg.EventBus.Mode)
	assert.Equal(t, "localhost:6379", cfg.EventBus.Redis.Addr)
	assert.Equal(t, "ngn", cfg.Payment.Currency)
	assert.Empty(t, cfg.Biz.VerifyCron)

	// Untouched keys keep their defaults.
	assert.Equal(t, "arenax", cfg.Log.Name)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	t.Setenv("ARENAX_SERVER_PORT", "9100")
	t.Setenv("ARENAX_PAYMENT_SECRET_KEY", "sk_live")
	t.Setenv("ARENAX_BIZ_SESSION_TTL", "90s")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.APIServer.Port)
	assert.Equal(t, "sk_live", cfg.Payment.SecretKey)
	assert.Equal(t, 90*time.Second, cfg.Biz.SessionTTL)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	path := writeConfig(t, "db:\n  dialect: mysql\n")

	v, err := Get(path, "db.dialect")
	require.NoError(t, err)
	assert.Equal(t, "mysql", v)

	v, err = Get(path, "server.port")
	require.NoError(t, err)
	assert.Equal(t, 8090, v)

	_, err = Get(path, "server.nope")
	require.Error(t, err)
}
