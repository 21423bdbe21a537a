package domain

// UserSearchResult is the outcome of a user search.
type UserSearchResult struct {
	// Users are the matching users in directory order.
	Users []UserRecord
	// TotalCount is the directory's estimate of all matches,
	// or len(Users) when the directory did not report one.
	TotalCount int
}

// GroupSearchResult is the outcome of a group search.
type GroupSearchResult struct {
	Groups     []GroupRecord
	TotalCount int
}

// MembershipResult lists the groups a user belongs to.
type MembershipResult struct {
	// UserID is the resolved canonical ID of the user.
	UserID string
	Groups []GroupRecord
}

// MembersResult lists the members of a group.
type MembersResult struct {
	// GroupID is the resolved canonical ID of the group.
	GroupID string
	// Members holds users and nested groups.
	Members []DirectoryObject
}
