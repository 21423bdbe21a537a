package domain

// Tool names exposed to agent frameworks.
const (
	ToolSearchUsers            = "search_entra_users"
	ToolSearchGroups           = "search_entra_groups"
	ToolGetUserGroupMembership = "get_user_group_membership"
	ToolGetGroupMembers        = "get_group_members"
)

// ToolParameter describes one argument of a tool.
type ToolParameter struct {
	Name        string
	Description string
	Required    bool
	// Default is the value used when the caller omits the parameter.
	Default string
}

// ToolDescriptor describes an exposed directory operation.
type ToolDescriptor struct {
	Name        string
	Title       string
	Description string
	Parameters  []ToolParameter
}

// PromptDescriptor describes a canned instruction that steers an agent
// towards the right tool call.
type PromptDescriptor struct {
	Name        string
	Description string
	Arguments   []ToolParameter
	// Render produces the instruction text from the supplied arguments.
	Render func(args map[string]string) string
}
