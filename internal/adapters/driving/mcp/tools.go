package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

// SearchInput is the input of the search tools.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"Search terms; every word must match, in any order"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
}

// UserMembershipInput is the input of get_user_group_membership.
type UserMembershipInput struct {
	UserIdentifier string `json:"user_identifier" jsonschema:"User ID, user principal name, email address, or display name"`
}

// GroupMembersInput is the input of get_group_members.
type GroupMembersInput struct {
	GroupIdentifier string `json:"group_identifier" jsonschema:"Group ID, email address, or display name"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Maximum number of members to return (default 50)"`
}

// UserSearchOutput is the result of search_entra_users.
type UserSearchOutput struct {
	Query        string              `json:"query"`
	TotalResults int                 `json:"total_results"`
	Users        []domain.UserRecord `json:"users"`
}

// GroupSearchOutput is the result of search_entra_groups.
type GroupSearchOutput struct {
	Query        string               `json:"query"`
	TotalResults int                  `json:"total_results"`
	Groups       []domain.GroupRecord `json:"groups"`
}

// UserMembershipOutput is the result of get_user_group_membership.
type UserMembershipOutput struct {
	UserIdentifier string               `json:"user_identifier"`
	UserID         string               `json:"user_id"`
	TotalGroups    int                  `json:"total_groups"`
	Groups         []domain.GroupRecord `json:"groups"`
}

// GroupMembersOutput is the result of get_group_members.
type GroupMembersOutput struct {
	GroupIdentifier string                   `json:"group_identifier"`
	GroupID         string                   `json:"group_id"`
	TotalMembers    int                      `json:"total_members"`
	Members         []domain.DirectoryObject `json:"members"`
}

// ErrorOutput is the body of a failed tool call.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure by kind.
type ErrorDetail struct {
	Kind       domain.ErrorKind   `json:"kind"`
	Message    string             `json:"message"`
	Candidates []domain.Candidate `json:"candidates,omitempty"`
}

func (s *Server) searchUsers(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	result, err := s.service.SearchUsers(ctx, in.Query, in.MaxResults)
	if err != nil {
		return errorResult(domain.ToolSearchUsers, err), nil, nil
	}
	return jsonResult(UserSearchOutput{
		Query:        in.Query,
		TotalResults: result.TotalCount,
		Users:        nonNil(result.Users),
	}), nil, nil
}

func (s *Server) searchGroups(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	result, err := s.service.SearchGroups(ctx, in.Query, in.MaxResults)
	if err != nil {
		return errorResult(domain.ToolSearchGroups, err), nil, nil
	}
	return jsonResult(GroupSearchOutput{
		Query:        in.Query,
		TotalResults: result.TotalCount,
		Groups:       nonNil(result.Groups),
	}), nil, nil
}

func (s *Server) getUserGroupMembership(ctx context.Context, _ *mcp.CallToolRequest, in UserMembershipInput) (*mcp.CallToolResult, any, error) {
	result, err := s.service.GetUserGroupMembership(ctx, in.UserIdentifier)
	if err != nil {
		return errorResult(domain.ToolGetUserGroupMembership, err), nil, nil
	}
	return jsonResult(UserMembershipOutput{
		UserIdentifier: in.UserIdentifier,
		UserID:         result.UserID,
		TotalGroups:    len(result.Groups),
		Groups:         nonNil(result.Groups),
	}), nil, nil
}

func (s *Server) getGroupMembers(ctx context.Context, _ *mcp.CallToolRequest, in GroupMembersInput) (*mcp.CallToolResult, any, error) {
	result, err := s.service.GetGroupMembers(ctx, in.GroupIdentifier, in.MaxResults)
	if err != nil {
		return errorResult(domain.ToolGetGroupMembers, err), nil, nil
	}
	return jsonResult(GroupMembersOutput{
		GroupIdentifier: in.GroupIdentifier,
		GroupID:         result.GroupID,
		TotalMembers:    len(result.Members),
		Members:         nonNil(result.Members),
	}), nil, nil
}

// errorResult reports err to the model as a tool error rather than a
// protocol error, so the agent can react to it.
func errorResult(tool string, err error) *mcp.CallToolResult {
	kind := domain.KindOf(err)
	logger.Warn("mcp: %s failed (%s): %v", tool, kind, err)

	detail := ErrorDetail{Kind: kind, Message: err.Error()}
	var ambiguous *domain.AmbiguousError
	if errors.As(err, &ambiguous) {
		detail.Candidates = ambiguous.Candidates
	}

	res := jsonResult(ErrorOutput{Error: detail})
	res.IsError = true
	return res
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(`{"error":{"kind":"internal_error","message":"failed to encode result"}}`)
		return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
