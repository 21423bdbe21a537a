package services

import (
	"fmt"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driving"
)

// Ensure ToolCatalog implements the interface.
var _ driving.ToolCatalog = (*ToolCatalog)(nil)

// ToolCatalog describes the directory tools and the prompts that steer
// agents towards them.
type ToolCatalog struct {
	tools   []domain.ToolDescriptor
	index   map[string]int
	prompts []domain.PromptDescriptor
}

// NewToolCatalog creates a catalog holding the built-in tools and prompts.
func NewToolCatalog() *ToolCatalog {
	c := &ToolCatalog{index: make(map[string]int)}
	c.registerBuiltinTools()
	c.registerBuiltinPrompts()
	return c
}

func (c *ToolCatalog) registerBuiltinTools() {
	c.registerSearchUsers()
	c.registerSearchGroups()
	c.registerGetUserGroupMembership()
	c.registerGetGroupMembers()
}

func (c *ToolCatalog) register(tool domain.ToolDescriptor) {
	c.index[tool.Name] = len(c.tools)
	c.tools = append(c.tools, tool)
}

func (c *ToolCatalog) registerSearchUsers() {
	c.register(domain.ToolDescriptor{
		Name:  domain.ToolSearchUsers,
		Title: "Search Entra users",
		Description: `Search for users in Microsoft Entra ID by name, email, or user principal name.

Every word of the query must match, in any order, so "Singh, Arun" and
"Arun Kumar Singh" find the same people. Quote a phrase to keep it together.
Returns name, email, job title, department and office for each user.

Use this tool to find a specific person, to list people with similar names,
or to look up contact and profile details.`,
		Parameters: []domain.ToolParameter{
			{Name: "query", Description: "Search term for user display name, email, or UPN", Required: true},
			{Name: "max_results", Description: "Maximum number of users to return", Default: "10"},
		},
	})
}

func (c *ToolCatalog) registerSearchGroups() {
	c.register(domain.ToolDescriptor{
		Name:  domain.ToolSearchGroups,
		Title: "Search Entra groups",
		Description: `Search for groups in Microsoft Entra ID by name or email.

Finds security groups, distribution groups and Microsoft 365 groups.
Every word of the query must match, in any order.

Use this tool to find a specific group, to discover groups for an assignment,
or to check a group's type and email address.`,
		Parameters: []domain.ToolParameter{
			{Name: "query", Description: "Search term for group display name or email", Required: true},
			{Name: "max_results", Description: "Maximum number of groups to return", Default: "10"},
		},
	})
}

func (c *ToolCatalog) registerGetUserGroupMembership() {
	c.register(domain.ToolDescriptor{
		Name:  domain.ToolGetUserGroupMembership,
		Title: "Get user group membership",
		Description: `List the groups a user directly belongs to in Microsoft Entra ID.

The user may be given as an object ID, a user principal name, an email
address or a display name. A name that matches several users fails with the
candidates listed so the caller can retry with an ID.

Use this tool to see what a user has access to through group membership.`,
		Parameters: []domain.ToolParameter{
			{Name: "user_identifier", Description: "User ID, user principal name, email address, or display name", Required: true},
		},
	})
}

func (c *ToolCatalog) registerGetGroupMembers() {
	c.register(domain.ToolDescriptor{
		Name:  domain.ToolGetGroupMembers,
		Title: "Get group members",
		Description: `List the direct members of a group in Microsoft Entra ID.

Members are users and nested groups, each marked with its type. The group may
be given as an object ID, an email address or a display name.

Use this tool to see who belongs to a group or to audit its membership.`,
		Parameters: []domain.ToolParameter{
			{Name: "group_identifier", Description: "Group ID, email address, or display name", Required: true},
			{Name: "max_results", Description: "Maximum number of members to return", Default: "50"},
		},
	})
}

func (c *ToolCatalog) registerBuiltinPrompts() {
	c.prompts = []domain.PromptDescriptor{
		{
			Name:        "find_user_by_name",
			Description: `Find a user by display name, e.g. "Who is John Doe?" or "Singh, Arun".`,
			Arguments:   []domain.ToolParameter{{Name: "name", Description: "The display name or partial name", Required: true}},
			Render:      callRenderer(domain.ToolSearchUsers, "query", "name", "max_results=25"),
		},
		{
			Name:        "find_user_by_email",
			Description: `Find a user by email address, e.g. "Find sarah@company.com".`,
			Arguments:   []domain.ToolParameter{{Name: "email", Description: "The email address", Required: true}},
			Render:      callRenderer(domain.ToolSearchUsers, "query", "email", "max_results=1"),
		},
		{
			Name:        "find_group_by_name",
			Description: `Find a group by name, e.g. "Find the Developers group".`,
			Arguments:   []domain.ToolParameter{{Name: "name", Description: "The group name or partial name", Required: true}},
			Render:      callRenderer(domain.ToolSearchGroups, "query", "name", "max_results=5"),
		},
		{
			Name:        "check_user_groups",
			Description: `Check which groups a user belongs to, e.g. "What groups is John Doe in?".`,
			Arguments:   []domain.ToolParameter{{Name: "user_identifier", Description: "User name, email, or ID", Required: true}},
			Render:      callRenderer(domain.ToolGetUserGroupMembership, "user_identifier", "user_identifier", ""),
		},
		{
			Name:        "list_group_members",
			Description: `List the members of a group, e.g. "Who is in the Developers group?".`,
			Arguments:   []domain.ToolParameter{{Name: "group_name", Description: "The group name or ID", Required: true}},
			Render:      callRenderer(domain.ToolGetGroupMembers, "group_identifier", "group_name", "max_results=50"),
		},
		{
			Name:        "user_access_audit",
			Description: `Audit a user's access through group membership, e.g. "What access does John Doe have?".`,
			Arguments:   []domain.ToolParameter{{Name: "user_identifier", Description: "User name, email, or ID to audit", Required: true}},
			Render:      callRenderer(domain.ToolGetUserGroupMembership, "user_identifier", "user_identifier", ""),
		},
		{
			Name:        "group_membership_audit",
			Description: `Audit the members of a security-sensitive group, e.g. "Who has admin access?".`,
			Arguments:   []domain.ToolParameter{{Name: "group_name", Description: "The group name or ID to audit", Required: true}},
			Render:      callRenderer(domain.ToolGetGroupMembers, "group_identifier", "group_name", "max_results=100"),
		},
	}
}

// callRenderer returns a Render func producing
// "Call <tool> with: <param>='<value>', <extra>".
func callRenderer(tool, param, arg, extra string) func(map[string]string) string {
	return func(args map[string]string) string {
		text := fmt.Sprintf("Call %s with: %s='%s'", tool, param, args[arg])
		if extra != "" {
			text += ", " + extra
		}
		return text
	}
}

// Tools returns all tool descriptors in registration order.
func (c *ToolCatalog) Tools() []domain.ToolDescriptor {
	return append([]domain.ToolDescriptor(nil), c.tools...)
}

// Tool returns a specific tool descriptor by name.
func (c *ToolCatalog) Tool(name string) (*domain.ToolDescriptor, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: tool %q", domain.ErrNotFound, name)
	}
	tool := c.tools[i]
	return &tool, nil
}

// Prompts returns all prompt descriptors in registration order.
func (c *ToolCatalog) Prompts() []domain.PromptDescriptor {
	return append([]domain.PromptDescriptor(nil), c.prompts...)
}
