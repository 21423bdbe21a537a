package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools and prompts",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("entra-directory %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}

func runTools(cmd *cobra.Command, _ []string) error {
	if toolCatalog == nil {
		return fmt.Errorf("tool catalog not configured")
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tPARAMETERS\tTITLE")
	for _, tool := range toolCatalog.Tools() {
		params := make([]string, 0, len(tool.Parameters))
		for _, p := range tool.Parameters {
			switch {
			case p.Required:
				params = append(params, p.Name)
			case p.Default != "":
				params = append(params, fmt.Sprintf("[%s=%s]", p.Name, p.Default))
			default:
				params = append(params, "["+p.Name+"]")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tool.Name, strings.Join(params, " "), tool.Title)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "PROMPT\tARGUMENTS\tDESCRIPTION")
	for _, p := range toolCatalog.Prompts() {
		args := make([]string, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, a.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, strings.Join(args, " "), p.Description)
	}
	return w.Flush()
}
