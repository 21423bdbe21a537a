package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithEnv_File(t *testing.T) {
	path := writeConfig(t, `
[entra]
tenant_id = "tenant"
client_id = "client"
client_secret = "secret"

[server]
transport = "http"
addr = "127.0.0.1:9000"

[directory]
membership_ceiling = 250
operation_timeout = "15s"
`)

	s, err := LoadWithEnv(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "tenant", s.Entra.TenantID)
	assert.Equal(t, "client", s.Entra.ClientID)
	assert.Equal(t, "secret", s.Entra.ClientSecret)
	assert.Equal(t, "http", s.Server.Transport)
	assert.Equal(t, "127.0.0.1:9000", s.Server.Addr)
	assert.Equal(t, 250, s.Directory.MembershipCeiling)

	timeout, err := s.Directory.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, timeout)
}

func TestLoadWithEnv_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[entra]
tenant_id = "file-tenant"
client_id = "file-client"
client_secret = "file-secret"
`)

	s, err := LoadWithEnv(path, env(map[string]string{
		EnvTenantID:     "env-tenant",
		EnvClientSecret: " env-secret ",
		EnvClientID:     "",
		EnvAuthorityURL: "https://login.microsoftonline.us",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-tenant", s.Entra.TenantID)
	assert.Equal(t, "file-client", s.Entra.ClientID, "empty variables do not override")
	assert.Equal(t, "env-secret", s.Entra.ClientSecret)
	assert.Equal(t, "https://login.microsoftonline.us", s.Entra.AuthorityURL)
}

func TestLoadWithEnv_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadWithEnv("", env(map[string]string{
		EnvTenantID:     "tenant",
		EnvClientID:     "client",
		EnvClientSecret: "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, s.Server.Addr)
	assert.Equal(t, "stdio", s.Server.Transport)
	timeout, err := s.Directory.Timeout()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestLoadWithEnv_MissingSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadWithEnv("", env(map[string]string{EnvClientID: "client"}))

	require.ErrorIs(t, err, ErrMissingSettings)
	var missing *MissingSettingsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{EnvTenantID, EnvClientSecret}, missing.Keys)
	assert.Contains(t, err.Error(), EnvTenantID)
}

func TestLoadWithEnv_ExplicitPathMustExist(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.toml"), env(nil))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingSettings)
}

func TestLoadWithEnv_InvalidFile(t *testing.T) {
	path := writeConfig(t, "[entra\ntenant_id = ")

	_, err := LoadWithEnv(path, env(nil))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSettings_Validate(t *testing.T) {
	base := func() *Settings {
		return &Settings{Entra: EntraSettings{TenantID: "t", ClientID: "c", ClientSecret: "s"}}
	}

	assert.NoError(t, base().Validate())

	s := base()
	s.Server.Transport = "websocket"
	assert.ErrorContains(t, s.Validate(), "unsupported transport")

	s = base()
	s.Directory.OperationTimeout = "soon"
	assert.ErrorContains(t, s.Validate(), "operation_timeout")
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".entra-directory", "config.toml"), path)
}
