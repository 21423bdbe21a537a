package driving

import (
	"context"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

// DirectoryService exposes the read-only directory lookups.
// Every method either returns a bounded, ordered result or exactly one
// error wrapping a domain sentinel.
type DirectoryService interface {
	// SearchUsers runs a free-text user search returning at most limit users.
	SearchUsers(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error)

	// SearchGroups runs a free-text group search returning at most limit groups.
	SearchGroups(ctx context.Context, query string, limit int) (*domain.GroupSearchResult, error)

	// GetUserGroupMembership resolves a user by ID, mail, principal name or
	// display name and lists the groups the user is a member of.
	GetUserGroupMembership(ctx context.Context, userIdentifier string) (*domain.MembershipResult, error)

	// GetGroupMembers resolves a group by ID, mail or display name and lists
	// at most limit of its members.
	GetGroupMembers(ctx context.Context, groupIdentifier string, limit int) (*domain.MembersResult, error)
}
