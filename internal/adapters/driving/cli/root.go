package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/entra-directory/internal/core/ports/driving"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configPath overrides the default settings file.
	configPath string

	// Services holds injected service implementations for CLI commands.
	directoryService driving.DirectoryService
	toolCatalog      driving.ToolCatalog
	serverTransport  string
	serverAddr       string

	// serviceLoader builds the directory-backed services on first use.
	serviceLoader func(configPath string) (*Services, error)
)

// errNoDirectory is returned when a command needs the directory but no
// service or loader was injected.
var errNoDirectory = errors.New("directory service not configured")

// Services holds configuration for CLI commands.
type Services struct {
	Directory driving.DirectoryService
	Catalog   driving.ToolCatalog
	// Transport and Addr are the configured serve defaults.
	Transport string
	Addr      string
}

// SetServices injects service implementations for CLI commands.
// Nil fields leave the current value in place.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	if s.Directory != nil {
		directoryService = s.Directory
	}
	if s.Catalog != nil {
		toolCatalog = s.Catalog
	}
	if s.Transport != "" {
		serverTransport = s.Transport
	}
	if s.Addr != "" {
		serverAddr = s.Addr
	}
}

// SetServiceLoader registers a loader invoked, with the --config value, by
// the first command that needs the directory. Settings are therefore only
// required by commands that query the directory.
func SetServiceLoader(loader func(configPath string) (*Services, error)) {
	serviceLoader = loader
}

// requireDirectory returns the directory service, loading it if needed.
func requireDirectory() (driving.DirectoryService, error) {
	if directoryService != nil {
		return directoryService, nil
	}
	if serviceLoader == nil {
		return nil, errNoDirectory
	}
	s, err := serviceLoader(configPath)
	if err != nil {
		return nil, err
	}
	SetServices(s)
	if directoryService == nil {
		return nil, errNoDirectory
	}
	return directoryService, nil
}

// contextOrBackground guards commands executed without a context.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "entra-directory",
	Short: "Read-only Microsoft Entra ID lookups for people and agents",
	Long: `entra-directory searches users and groups in a Microsoft Entra ID tenant
and resolves group membership in both directions.

The same four lookups are served as MCP tools with 'entra-directory serve'.
Credentials come from ~/.entra-directory/config.toml or the ENTRA_TENANT_ID,
ENTRA_CLIENT_ID and ENTRA_CLIENT_SECRET environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.entra-directory/config.toml)")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
