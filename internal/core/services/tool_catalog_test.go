package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

func TestNewToolCatalog(t *testing.T) {
	catalog := NewToolCatalog()

	require.NotNil(t, catalog)
	assert.NotNil(t, catalog.index)
}

func TestToolCatalog_Tools(t *testing.T) {
	tools := NewToolCatalog().Tools()

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Title, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		require.NotEmpty(t, tool.Parameters, tool.Name)
		assert.True(t, tool.Parameters[0].Required, "first parameter of %s is required", tool.Name)
	}

	assert.Equal(t, []string{
		"search_entra_users",
		"search_entra_groups",
		"get_user_group_membership",
		"get_group_members",
	}, names)
}

func TestToolCatalog_Tools_ReturnsCopy(t *testing.T) {
	catalog := NewToolCatalog()

	tools := catalog.Tools()
	tools[0].Name = "changed"

	assert.Equal(t, domain.ToolSearchUsers, catalog.Tools()[0].Name)
}

func TestToolCatalog_Tool(t *testing.T) {
	catalog := NewToolCatalog()

	tool, err := catalog.Tool(domain.ToolGetGroupMembers)
	require.NoError(t, err)
	assert.Equal(t, "group_identifier", tool.Parameters[0].Name)
	assert.Equal(t, "50", tool.Parameters[1].Default)

	search, err := catalog.Tool(domain.ToolSearchUsers)
	require.NoError(t, err)
	assert.Equal(t, "10", search.Parameters[1].Default)
}

func TestToolCatalog_Tool_NotFound(t *testing.T) {
	_, err := NewToolCatalog().Tool("delete_user")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToolCatalog_Prompts(t *testing.T) {
	prompts := NewToolCatalog().Prompts()
	require.Len(t, prompts, 7)

	byName := make(map[string]domain.PromptDescriptor)
	for _, p := range prompts {
		require.NotNil(t, p.Render, p.Name)
		require.Len(t, p.Arguments, 1, p.Name)
		byName[p.Name] = p
	}

	tests := []struct {
		prompt string
		args   map[string]string
		want   string
	}{
		{"find_user_by_name", map[string]string{"name": "Singh, Arun"}, "Call search_entra_users with: query='Singh, Arun', max_results=25"},
		{"find_user_by_email", map[string]string{"email": "sarah@company.com"}, "Call search_entra_users with: query='sarah@company.com', max_results=1"},
		{"find_group_by_name", map[string]string{"name": "Developers"}, "Call search_entra_groups with: query='Developers', max_results=5"},
		{"check_user_groups", map[string]string{"user_identifier": "John Doe"}, "Call get_user_group_membership with: user_identifier='John Doe'"},
		{"list_group_members", map[string]string{"group_name": "Developers"}, "Call get_group_members with: group_identifier='Developers', max_results=50"},
		{"user_access_audit", map[string]string{"user_identifier": "john@company.com"}, "Call get_user_group_membership with: user_identifier='john@company.com'"},
		{"group_membership_audit", map[string]string{"group_name": "Security Admins"}, "Call get_group_members with: group_identifier='Security Admins', max_results=100"},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			p, ok := byName[tt.prompt]
			require.True(t, ok)
			assert.Equal(t, tt.want, p.Render(tt.args))
		})
	}
}
