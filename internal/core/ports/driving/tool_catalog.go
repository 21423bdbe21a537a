package driving

import "github.com/custodia-labs/entra-directory/internal/core/domain"

// ToolCatalog describes the tools and prompts exposed to agent frameworks.
type ToolCatalog interface {
	// Tools returns every tool descriptor in registration order.
	Tools() []domain.ToolDescriptor

	// Tool returns a tool descriptor by name.
	// Returns ErrNotFound if the tool doesn't exist.
	Tool(name string) (*domain.ToolDescriptor, error)

	// Prompts returns every prompt descriptor in registration order.
	Prompts() []domain.PromptDescriptor
}
