// Package mcp exposes the directory operations as Model Context Protocol
// tools and prompts over stdio or streamable HTTP.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driving"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

// ServerName identifies the server to MCP clients and health checks.
const ServerName = "microsoft-entra-mcp-server"

// Server is an MCP server backed by a DirectoryService.
type Server struct {
	service driving.DirectoryService
	catalog driving.ToolCatalog
	server  *mcp.Server
}

// NewServer creates a server with every catalog tool and prompt registered.
func NewServer(service driving.DirectoryService, catalog driving.ToolCatalog, version string) (*Server, error) {
	s := &Server{
		service: service,
		catalog: catalog,
		server:  mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerPrompts()
	return s, nil
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// ServeStdio serves a single client over stdin and stdout until ctx is done
// or the client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	logger.Info("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() error {
	users, err := s.tool(domain.ToolSearchUsers)
	if err != nil {
		return err
	}
	mcp.AddTool(s.server, users, s.searchUsers)

	groups, err := s.tool(domain.ToolSearchGroups)
	if err != nil {
		return err
	}
	mcp.AddTool(s.server, groups, s.searchGroups)

	membership, err := s.tool(domain.ToolGetUserGroupMembership)
	if err != nil {
		return err
	}
	mcp.AddTool(s.server, membership, s.getUserGroupMembership)

	members, err := s.tool(domain.ToolGetGroupMembers)
	if err != nil {
		return err
	}
	mcp.AddTool(s.server, members, s.getGroupMembers)

	return nil
}

// tool builds the SDK definition of a catalog tool. Every directory tool is
// read-only and reaches an external system.
func (s *Server) tool(name string) (*mcp.Tool, error) {
	desc, err := s.catalog.Tool(name)
	if err != nil {
		return nil, fmt.Errorf("register tool: %w", err)
	}
	return &mcp.Tool{
		Name:        desc.Name,
		Description: desc.Description,
		Annotations: &mcp.ToolAnnotations{
			Title:           desc.Title,
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, nil
}

func (s *Server) registerPrompts() {
	for _, p := range s.catalog.Prompts() {
		args := make([]*mcp.PromptArgument, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, &mcp.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required})
		}
		s.server.AddPrompt(&mcp.Prompt{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   args,
		}, promptHandler(p))
	}
}

func promptHandler(p domain.PromptDescriptor) mcp.PromptHandler {
	return func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := map[string]string{}
		if req != nil && req.Params != nil && req.Params.Arguments != nil {
			args = req.Params.Arguments
		}
		for _, a := range p.Arguments {
			if a.Required && args[a.Name] == "" {
				return nil, fmt.Errorf("prompt %s: missing required argument %q", p.Name, a.Name)
			}
		}
		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: p.Render(args)}},
			},
		}, nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}
