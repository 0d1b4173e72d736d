package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/conf"
	"github.com/arenax/arenax/internal/build"
	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/server/biz"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func validConfig(t *testing.T) conf.Config {
	t.Helper()

	cfg, err := conf.LoadFile(writeConfig(t, `
payment:
  secret_key: FLWSECK_TEST-123
`))
	require.NoError(t, err)

	return cfg
}

func TestValidateConfig(t *testing.T) {
	assert.Empty(t, validateConfig(validConfig(t)))

	cfg := validConfig(t)
	cfg.APIServer.Port = 70000
	cfg.DB.DSN = ""
	cfg.APIServer.CORS.Enabled = true
	cfg.EventBus.Mode = eventbus.ModeRedis
	cfg.Payment.SecretKey = ""
	cfg.Biz.Admin.SecretKey = "only-the-key"
	cfg.MediaStorage.Type = media.StorageTypeS3

	problems := validateConfig(cfg)
	assert.Len(t, problems, 7)
	assert.Contains(t, problems, "server.port must be between 1 and 65535")
	assert.Contains(t, problems, "media.s3.bucket_name cannot be empty")
}

func TestRenderConfig(t *testing.T) {
	cfg := validConfig(t)

	out, err := renderConfig(cfg, "json")
	require.NoError(t, err)
	assert.Contains(t, out, "server")
	assert.NotContains(t, out, "FLWSECK_TEST-123")

	out, err = renderConfig(cfg, "yml")
	require.NoError(t, err)
	assert.Contains(t, out, "port")

	_, err = renderConfig(cfg, "toml")
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9191
payment:
  secret_key: FLWSECK_TEST-123
`)

	out, err := run(t, "", "config", "get", "server.port", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "9191\n", out)

	out, err = run(t, "", "config", "validate", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid!")

	_, err = run(t, "", "config", "get", "server.nope", "-c", path)
	require.Error(t, err)

	bad := writeConfig(t, "server:\n  port: 0\n")
	out, err = run(t, "", "config", "validate", "-c", bad)
	require.Error(t, err)
	assert.Contains(t, out, "server.port must be between 1 and 65535")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)

	out, err = run(t, "", "version", "--latest", "v99.0.0")
	require.NoError(t, err)
	assert.Equal(t, build.Version+" (update available: v99.0.0)\n", out)

	out, err = run(t, "", "version", "--latest", "v0.0.1")
	require.NoError(t, err)
	assert.Equal(t, build.Version+" (up to date)\n", out)

	_, err = run(t, "", "version", "--latest", "not-a-version")
	require.Error(t, err)
}

func TestAdminHashPassword(t *testing.T) {
	out, err := run(t, "organizer-pass\n", "admin", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	require.NoError(t, biz.VerifyPassword(hash, "organizer-pass"))

	_, err = run(t, "", "admin", "hash-password")
	require.Error(t, err)

	_, err = run(t, "\n", "admin", "hash-password")
	require.Error(t, err)
}
