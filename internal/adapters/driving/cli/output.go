package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

// errorBody mirrors the tool error payload.
type errorBody struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

func newErrorBody(err error) *errorBody {
	return &errorBody{Kind: domain.KindOf(err), Message: err.Error()}
}

// printJSON writes v to the command's output, indented for terminals and
// compact otherwise.
func printJSON(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	if isTerminal(out) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
