package directory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/entra-directory/internal/connectors/microsoft"
	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

const (
	// exactMatchProbe is enough to tell one match from several.
	exactMatchProbe = 2
	// displayNameCandidates bounds a display-name lookup.
	displayNameCandidates = 10
)

// Classify determines how an identifier is interpreted.
func Classify(identifier string) domain.IdentifierKind {
	id := strings.TrimSpace(identifier)
	switch {
	case isCanonicalID(id):
		return domain.IdentifierCanonicalID
	case strings.Contains(id, "@"):
		return domain.IdentifierEmailOrPrincipalName
	default:
		return domain.IdentifierDisplayName
	}
}

// isCanonicalID accepts only the hyphenated 36-character GUID form.
// uuid.Parse also accepts braced and urn forms which Graph does not.
func isCanonicalID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Resolver turns caller-supplied identifiers into canonical object ids.
type Resolver struct {
	paginator *Paginator
}

// NewResolver creates a resolver issuing lookups through paginator.
func NewResolver(paginator *Paginator) *Resolver {
	return &Resolver{paginator: paginator}
}

// Resolve returns the canonical id of the single object of the given kind
// that identifier names. Canonical ids are returned without a remote call.
// Email-like identifiers are matched exactly before falling back to a
// display-name lookup.
func (r *Resolver) Resolve(ctx context.Context, identifier string, kind domain.ObjectKind) (string, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return "", fmt.Errorf("%w: %s identifier is empty", domain.ErrInvalidInput, kind)
	}

	path, err := collectionPath(kind)
	if err != nil {
		return "", err
	}

	switch Classify(id) {
	case domain.IdentifierCanonicalID:
		return id, nil

	case domain.IdentifierEmailOrPrincipalName:
		objects, err := r.lookup(ctx, path, kind, url.Values{
			"$filter": {EqualsFilter(exactMatchFields(kind), id)},
		}, exactMatchProbe)
		if err != nil {
			return "", fmt.Errorf("resolve %s %q: %w", kind, id, err)
		}
		switch len(objects) {
		case 0:
			logger.Debug("directory: no %s with mail or principal name %q, trying display name", kind, id)
		case 1:
			return objects[0].ObjectID(), nil
		default:
			return "", ambiguous(id, kind, objects)
		}
	}

	return r.resolveDisplayName(ctx, path, id, kind)
}

func (r *Resolver) resolveDisplayName(ctx context.Context, path, id string, kind domain.ObjectKind) (string, error) {
	expr, err := BuildFieldSearch(id, "displayName")
	if err != nil {
		return "", err
	}

	objects, err := r.lookup(ctx, path, kind, url.Values{"$search": {string(expr)}}, displayNameCandidates)
	if microsoft.IsBadRequest(err) {
		logger.Debug("directory: display-name search rejected for %q, falling back to equality filter", id)
		objects, err = r.lookup(ctx, path, kind, url.Values{
			"$filter": {EqualsFilter([]string{"displayName"}, id)},
		}, displayNameCandidates)
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s %q: %w", kind, id, err)
	}

	switch len(objects) {
	case 0:
		return "", fmt.Errorf("%w: no %s matches %q", domain.ErrNotFound, kind, id)
	case 1:
		return objects[0].ObjectID(), nil
	}

	var exact []domain.DirectoryObject
	for _, obj := range objects {
		if strings.EqualFold(strings.TrimSpace(domain.DisplayNameOf(obj)), id) {
			exact = append(exact, obj)
		}
	}
	if len(exact) == 1 {
		return exact[0].ObjectID(), nil
	}
	if len(exact) > 1 {
		return "", ambiguous(id, kind, exact)
	}
	return "", ambiguous(id, kind, objects)
}

func (r *Resolver) lookup(ctx context.Context, path string, kind domain.ObjectKind, query url.Values, limit int) ([]domain.DirectoryObject, error) {
	query.Set("$select", "id,displayName")
	query.Set("$top", strconv.Itoa(limit))
	page, err := r.paginator.Paginate(ctx, PageRequest{Path: path, Query: query, DefaultKind: kind}, limit)
	if err != nil {
		return nil, err
	}
	return page.Objects, nil
}

func ambiguous(id string, kind domain.ObjectKind, objects []domain.DirectoryObject) error {
	candidates := make([]domain.Candidate, 0, len(objects))
	for _, obj := range objects {
		candidates = append(candidates, domain.Candidate{ID: obj.ObjectID(), DisplayName: domain.DisplayNameOf(obj)})
	}
	return &domain.AmbiguousError{Identifier: id, Kind: kind, Candidates: candidates}
}

func collectionPath(kind domain.ObjectKind) (string, error) {
	switch kind {
	case domain.ObjectUser:
		return "/users", nil
	case domain.ObjectGroup:
		return "/groups", nil
	default:
		return "", fmt.Errorf("%w: unsupported object kind %q", domain.ErrInvalidInput, kind)
	}
}

func exactMatchFields(kind domain.ObjectKind) []string {
	if kind == domain.ObjectUser {
		return []string{"mail", "userPrincipalName"}
	}
	return []string{"mail"}
}
