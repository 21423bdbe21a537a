// Package file loads process settings from a TOML file overlaid with
// environment variables.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables. They take precedence over the file.
const (
	EnvTenantID     = "ENTRA_TENANT_ID"
	EnvClientID     = "ENTRA_CLIENT_ID"
	EnvClientSecret = "ENTRA_CLIENT_SECRET"
	EnvGraphBaseURL = "ENTRA_GRAPH_BASE_URL"
	EnvAuthorityURL = "ENTRA_AUTHORITY_URL"
)

// DefaultAddr is where the HTTP transport listens unless configured.
const DefaultAddr = "0.0.0.0:8001"

// ErrMissingSettings indicates required credentials are absent.
var ErrMissingSettings = errors.New("missing required settings")

// MissingSettingsError names every absent required setting.
type MissingSettingsError struct {
	Keys []string
}

// Error implements the error interface.
func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSettings, strings.Join(e.Keys, ", "))
}

// Is reports whether target is ErrMissingSettings.
func (e *MissingSettingsError) Is(target error) bool {
	return target == ErrMissingSettings
}

// Settings is the resolved process configuration.
type Settings struct {
	Entra     EntraSettings     `toml:"entra"`
	Server    ServerSettings    `toml:"server"`
	Directory DirectorySettings `toml:"directory"`
}

// EntraSettings identifies the app registration and endpoints.
type EntraSettings struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	GraphBaseURL string `toml:"graph_base_url"`
	AuthorityURL string `toml:"authority_url"`
}

// ServerSettings configures the MCP server.
type ServerSettings struct {
	Transport string `toml:"transport"`
	Addr      string `toml:"addr"`
}

// DirectorySettings tunes the query engine. Zero values keep engine defaults.
type DirectorySettings struct {
	DefaultSearchLimit  int    `toml:"default_search_limit"`
	DefaultMembersLimit int    `toml:"default_members_limit"`
	MaxPageSize         int    `toml:"max_page_size"`
	MembershipCeiling   int    `toml:"membership_ceiling"`
	MaxPages            int    `toml:"max_pages"`
	OperationTimeout    string `toml:"operation_timeout"`
}

// Timeout parses OperationTimeout. An empty value yields zero.
func (d DirectorySettings) Timeout() (time.Duration, error) {
	if d.OperationTimeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(d.OperationTimeout)
	if err != nil {
		return 0, fmt.Errorf("directory.operation_timeout: %w", err)
	}
	return timeout, nil
}

// DefaultPath returns ~/.entra-directory/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".entra-directory", "config.toml"), nil
}

// Load resolves settings from path and the process environment.
// An empty path uses DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (*Settings, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &Settings{}
	if err := s.readFile(path, explicit); err != nil {
		return nil, err
	}
	s.applyEnv(lookup)

	if s.Server.Addr == "" {
		s.Server.Addr = DefaultAddr
	}
	if s.Server.Transport == "" {
		s.Server.Transport = "stdio"
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) readFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) {
	for env, field := range map[string]*string{
		EnvTenantID:     &s.Entra.TenantID,
		EnvClientID:     &s.Entra.ClientID,
		EnvClientSecret: &s.Entra.ClientSecret,
		EnvGraphBaseURL: &s.Entra.GraphBaseURL,
		EnvAuthorityURL: &s.Entra.AuthorityURL,
	} {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate checks required credentials and tunables.
func (s *Settings) Validate() error {
	var missing []string
	if s.Entra.TenantID == "" {
		missing = append(missing, EnvTenantID)
	}
	if s.Entra.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if s.Entra.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if len(missing) > 0 {
		return &MissingSettingsError{Keys: missing}
	}

	switch s.Server.Transport {
	case "", "stdio", "http":
	default:
		return fmt.Errorf("server.transport: unsupported transport %q", s.Server.Transport)
	}

	_, err := s.Directory.Timeout()
	return err
}
