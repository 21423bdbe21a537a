package directory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

// OData type names of the supported directory object variants.
const (
	odataTypeUser  = "#microsoft.graph.user"
	odataTypeGroup = "#microsoft.graph.group"
)

// Properties requested with $select for each listing.
var (
	userFields   = []string{"id", "displayName", "userPrincipalName", "mail", "jobTitle", "department", "officeLocation"}
	groupFields  = []string{"id", "displayName", "description", "mail", "groupTypes"}
	memberFields = []string{"id", "displayName", "userPrincipalName", "mail", "jobTitle", "department", "description"}

	// Properties matched by the $filter fallback when $search is rejected.
	userPrefixFields  = []string{"displayName", "mail", "userPrincipalName"}
	groupPrefixFields = []string{"displayName", "mail"}
)

// listing is one page of a Graph collection response.
// Unknown properties are ignored.
type listing struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
	Count    *int              `json:"@odata.count"`
}

// graphObject holds the union of user and group properties.
type graphObject struct {
	ODataType         string   `json:"@odata.type"`
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	Mail              string   `json:"mail"`
	UserPrincipalName string   `json:"userPrincipalName"`
	JobTitle          string   `json:"jobTitle"`
	Department        string   `json:"department"`
	OfficeLocation    string   `json:"officeLocation"`
	Description       string   `json:"description"`
	GroupTypes        []string `json:"groupTypes"`
}

// decodeListing parses a collection response body.
func decodeListing(body []byte) (*listing, error) {
	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %w", domain.ErrUpstream, err)
	}
	return &l, nil
}

// decodeObject converts a raw Graph object into a domain variant.
// fallback is used when the object carries no @odata.type, which is the case
// for typed collections such as /users. ok is false for objects that are
// neither users nor groups (devices, service principals, directory roles).
func decodeObject(raw json.RawMessage, fallback domain.ObjectKind) (obj domain.DirectoryObject, ok bool, err error) {
	var g graphObject
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, false, fmt.Errorf("%w: decode directory object: %w", domain.ErrUpstream, err)
	}

	kind := fallback
	switch strings.ToLower(g.ODataType) {
	case "":
	case odataTypeUser:
		kind = domain.ObjectUser
	case odataTypeGroup:
		kind = domain.ObjectGroup
	default:
		logger.Debug("directory: skipping %s object %s", g.ODataType, g.ID)
		return nil, false, nil
	}

	if g.ID == "" {
		logger.Warn("directory: skipping %s object without id", kind)
		return nil, false, nil
	}

	switch kind {
	case domain.ObjectUser:
		return domain.UserRecord{
			ID:                g.ID,
			DisplayName:       g.DisplayName,
			Mail:              g.Mail,
			UserPrincipalName: g.UserPrincipalName,
			JobTitle:          g.JobTitle,
			Department:        g.Department,
			OfficeLocation:    g.OfficeLocation,
		}, true, nil
	case domain.ObjectGroup:
		return domain.GroupRecord{
			ID:          g.ID,
			DisplayName: g.DisplayName,
			Description: g.Description,
			Mail:        g.Mail,
			GroupTypes:  g.GroupTypes,
		}, true, nil
	default:
		return nil, false, fmt.Errorf("%w: decode directory object: unknown kind %q", domain.ErrInvalidInput, kind)
	}
}
