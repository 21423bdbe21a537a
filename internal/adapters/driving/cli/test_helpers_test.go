package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/services"
)

// mockDirectoryService implements driving.DirectoryService for testing.
type mockDirectoryService struct {
	mu sync.Mutex

	membership map[string]*domain.MembershipResult
	members    *domain.MembersResult
	err        error

	searchLimit int
	calls       []string
}

func (m *mockDirectoryService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockDirectoryService) SearchUsers(_ context.Context, query string, limit int) (*domain.UserSearchResult, error) {
	m.record("SearchUsers:" + query)
	m.searchLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return &domain.UserSearchResult{
		Users:      []domain.UserRecord{{ID: "u1", DisplayName: "Arun Singh", Mail: "arun@example.com"}},
		TotalCount: 1,
	}, nil
}

func (m *mockDirectoryService) SearchGroups(_ context.Context, query string, limit int) (*domain.GroupSearchResult, error) {
	m.record("SearchGroups:" + query)
	m.searchLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return &domain.GroupSearchResult{}, nil
}

func (m *mockDirectoryService) GetUserGroupMembership(_ context.Context, userIdentifier string) (*domain.MembershipResult, error) {
	m.record("GetUserGroupMembership:" + userIdentifier)
	if r, ok := m.membership[userIdentifier]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockDirectoryService) GetGroupMembers(_ context.Context, groupIdentifier string, _ int) (*domain.MembersResult, error) {
	m.record("GetGroupMembers:" + groupIdentifier)
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

// withServices swaps the injected services for the duration of a test.
func withServices(t *testing.T, svc *mockDirectoryService) {
	t.Helper()
	oldDirectory, oldCatalog, oldLoader := directoryService, toolCatalog, serviceLoader
	t.Cleanup(func() {
		directoryService, toolCatalog, serviceLoader = oldDirectory, oldCatalog, oldLoader
	})

	directoryService = nil
	if svc != nil {
		directoryService = svc
	}
	toolCatalog = services.NewToolCatalog()
	serviceLoader = nil
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
