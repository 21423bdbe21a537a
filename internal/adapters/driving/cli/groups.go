package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Search groups and list their members",
}

var groupsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search groups by name or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsSearch,
}

var groupsMembersCmd = &cobra.Command{
	Use:   "members <identifier>",
	Short: "List the members of a group",
	Long: `List the direct members of a group: users and nested groups.
The group may be given as an object ID, an email address, or a display name.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroupsMembers,
}

var (
	groupsSearchLimit  int
	groupsMembersLimit int
)

func init() {
	groupsSearchCmd.Flags().IntVarP(&groupsSearchLimit, "limit", "n", 0, "maximum number of groups (default 10)")
	groupsMembersCmd.Flags().IntVarP(&groupsMembersLimit, "limit", "n", 0, "maximum number of members (default 50)")

	groupsCmd.AddCommand(groupsSearchCmd)
	groupsCmd.AddCommand(groupsMembersCmd)
	rootCmd.AddCommand(groupsCmd)
}

type groupSearchOutput struct {
	Query        string               `json:"query"`
	TotalResults int                  `json:"total_results"`
	Groups       []domain.GroupRecord `json:"groups"`
}

type membersOutput struct {
	GroupIdentifier string                   `json:"group_identifier"`
	GroupID         string                   `json:"group_id"`
	TotalMembers    int                      `json:"total_members"`
	Members         []domain.DirectoryObject `json:"members"`
}

func runGroupsSearch(cmd *cobra.Command, args []string) error {
	svc, err := requireDirectory()
	if err != nil {
		return err
	}

	result, err := svc.SearchGroups(contextOrBackground(cmd.Context()), args[0], groupsSearchLimit)
	if err != nil {
		return fmt.Errorf("search groups: %w", err)
	}

	groups := result.Groups
	if groups == nil {
		groups = []domain.GroupRecord{}
	}
	return printJSON(cmd, groupSearchOutput{Query: args[0], TotalResults: result.TotalCount, Groups: groups})
}

func runGroupsMembers(cmd *cobra.Command, args []string) error {
	svc, err := requireDirectory()
	if err != nil {
		return err
	}

	result, err := svc.GetGroupMembers(contextOrBackground(cmd.Context()), args[0], groupsMembersLimit)
	if err != nil {
		return fmt.Errorf("get group members: %w", err)
	}

	members := result.Members
	if members == nil {
		members = []domain.DirectoryObject{}
	}
	return printJSON(cmd, membersOutput{
		GroupIdentifier: args[0],
		GroupID:         result.GroupID,
		TotalMembers:    len(members),
		Members:         members,
	})
}
