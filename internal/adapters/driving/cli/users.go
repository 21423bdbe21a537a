package cli

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

// maxConcurrentLookups bounds parallel membership lookups.
const maxConcurrentLookups = 4

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Search users and inspect their group membership",
}

var usersSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name, email, or principal name",
	Long: `Search users by display name, email, or user principal name.

Every word must match in any order, so "Singh, Arun" and "Arun Singh" are
equivalent. Quote a phrase to match it as a whole.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersSearch,
}

var usersGroupsCmd = &cobra.Command{
	Use:   "groups <identifier>...",
	Short: "List the groups one or more users belong to",
	Long: `List the groups each user belongs to. A user may be given as an object ID,
an email address or principal name, or a display name. Several users are
looked up concurrently; each result is printed on its own line in argument
order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUsersGroups,
}

var usersSearchLimit int

func init() {
	usersSearchCmd.Flags().IntVarP(&usersSearchLimit, "limit", "n", 0, "maximum number of users (default 10)")

	usersCmd.AddCommand(usersSearchCmd)
	usersCmd.AddCommand(usersGroupsCmd)
	rootCmd.AddCommand(usersCmd)
}

type userSearchOutput struct {
	Query        string              `json:"query"`
	TotalResults int                 `json:"total_results"`
	Users        []domain.UserRecord `json:"users"`
}

type membershipOutput struct {
	UserIdentifier string               `json:"user_identifier"`
	UserID         string               `json:"user_id,omitempty"`
	TotalGroups    int                  `json:"total_groups"`
	Groups         []domain.GroupRecord `json:"groups"`
	Error          *errorBody           `json:"error,omitempty"`
}

func runUsersSearch(cmd *cobra.Command, args []string) error {
	svc, err := requireDirectory()
	if err != nil {
		return err
	}

	result, err := svc.SearchUsers(contextOrBackground(cmd.Context()), args[0], usersSearchLimit)
	if err != nil {
		return fmt.Errorf("search users: %w", err)
	}

	users := result.Users
	if users == nil {
		users = []domain.UserRecord{}
	}
	return printJSON(cmd, userSearchOutput{Query: args[0], TotalResults: result.TotalCount, Users: users})
}

func runUsersGroups(cmd *cobra.Command, args []string) error {
	svc, err := requireDirectory()
	if err != nil {
		return err
	}

	ctx := contextOrBackground(cmd.Context())
	outputs := make([]membershipOutput, len(args))
	errs := make([]error, len(args))

	p := pool.New().WithMaxGoroutines(maxConcurrentLookups)
	for i, identifier := range args {
		p.Go(func() {
			out := membershipOutput{UserIdentifier: identifier, Groups: []domain.GroupRecord{}}
			result, err := svc.GetUserGroupMembership(ctx, identifier)
			if err != nil {
				out.Error = newErrorBody(err)
				errs[i] = fmt.Errorf("%s: %w", identifier, err)
			} else {
				out.UserID = result.UserID
				out.TotalGroups = len(result.Groups)
				if result.Groups != nil {
					out.Groups = result.Groups
				}
			}
			outputs[i] = out
		})
	}
	p.Wait()

	for _, out := range outputs {
		if err := printJSON(cmd, out); err != nil {
			return err
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("get user group membership: %w", err)
	}
	return nil
}
