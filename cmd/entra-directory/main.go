package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/entra-directory/internal/adapters/driven/config/file"
	"github.com/custodia-labs/entra-directory/internal/adapters/driving/cli"
	"github.com/custodia-labs/entra-directory/internal/connectors/microsoft"
	"github.com/custodia-labs/entra-directory/internal/connectors/microsoft/directory"
	"github.com/custodia-labs/entra-directory/internal/core/services"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	// The catalog needs no credentials; the directory is built on first use.
	cli.SetServices(&cli.Services{Catalog: services.NewToolCatalog()})
	cli.SetServiceLoader(loadServices)

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// loadServices resolves settings and wires the directory engine.
// Missing credentials fail here, before any token is requested.
func loadServices(configPath string) (*cli.Services, error) {
	settings, err := file.Load(configPath)
	if err != nil {
		return nil, err
	}

	credentials, err := microsoft.NewClientCredentials(microsoft.ClientCredentialsConfig{
		TenantID:     settings.Entra.TenantID,
		ClientID:     settings.Entra.ClientID,
		ClientSecret: settings.Entra.ClientSecret,
		AuthorityURL: settings.Entra.AuthorityURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential provider: %w", err)
	}

	client := microsoft.NewClient(credentials, microsoft.ClientConfig{
		BaseURL: settings.Entra.GraphBaseURL,
	})

	timeout, err := settings.Directory.Timeout()
	if err != nil {
		return nil, err
	}
	engine := directory.New(client, directory.Config{
		DefaultSearchLimit:  settings.Directory.DefaultSearchLimit,
		DefaultMembersLimit: settings.Directory.DefaultMembersLimit,
		MaxPageSize:         settings.Directory.MaxPageSize,
		MembershipCeiling:   settings.Directory.MembershipCeiling,
		MaxPages:            settings.Directory.MaxPages,
		OperationTimeout:    timeout,
	})

	return &cli.Services{
		Directory: engine,
		Transport: settings.Server.Transport,
		Addr:      settings.Server.Addr,
	}, nil
}
