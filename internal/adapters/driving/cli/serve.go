package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/entra-directory/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the directory tools over MCP",
	Long: `Serve the directory lookups as MCP tools and prompts.

The stdio transport (default) serves one client on stdin and stdout; logs go
to stderr. The http transport serves streamable HTTP on /mcp and a health
check on /health.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveTransport string
	serveAddr      string
)

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "", "transport: stdio or http (default stdio)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address for the http transport (default 0.0.0.0:8001)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := requireDirectory()
	if err != nil {
		return err
	}
	if toolCatalog == nil {
		return fmt.Errorf("tool catalog not configured")
	}

	server, err := mcp.NewServer(svc, toolCatalog, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := firstNonEmpty(serveTransport, serverTransport, "stdio")
	switch transport {
	case "stdio":
		return server.ServeStdio(ctx)
	case "http":
		return server.ServeHTTP(ctx, firstNonEmpty(serveAddr, serverAddr, "0.0.0.0:8001"))
	default:
		return fmt.Errorf("unsupported transport %q: use stdio or http", transport)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
