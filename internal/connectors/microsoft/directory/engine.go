package directory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/entra-directory/internal/connectors/microsoft"
	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driven"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driving"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

const tracerName = "github.com/custodia-labs/entra-directory/internal/connectors/microsoft/directory"

// Ensure Engine implements the interface.
var _ driving.DirectoryService = (*Engine)(nil)

// Engine answers directory queries against Microsoft Graph.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config    Config
	paginator *Paginator
	resolver  *Resolver
	tracer    trace.Tracer
}

// New creates an engine over transport.
func New(transport driven.Transport, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	paginator := NewPaginator(transport, cfg.MaxPages)
	return &Engine{
		config:    cfg,
		paginator: paginator,
		resolver:  NewResolver(paginator),
		tracer:    otel.Tracer(tracerName),
	}
}

// SearchUsers finds users whose display name, mail or principal name match query.
func (e *Engine) SearchUsers(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error) {
	limit = e.limitOr(limit, e.config.DefaultSearchLimit)
	ctx, span, cancel := e.start(ctx, "SearchUsers", attribute.Int("directory.limit", limit))
	defer cancel()
	defer span.End()

	page, err := e.search(ctx, "/users", domain.ObjectUser, query, limit, userFields, userPrefixFields)
	if err != nil {
		return nil, fail(span, fmt.Errorf("search users: %w", err))
	}

	users := make([]domain.UserRecord, 0, len(page.Objects))
	for _, obj := range page.Objects {
		if u, ok := obj.(domain.UserRecord); ok {
			users = append(users, u)
		}
	}
	total := totalOf(page, len(users))
	span.SetAttributes(attribute.Int("directory.results", len(users)), attribute.Int("directory.total", total))
	return &domain.UserSearchResult{Users: users, TotalCount: total}, nil
}

// SearchGroups finds groups whose display name or mail match query.
func (e *Engine) SearchGroups(ctx context.Context, query string, limit int) (*domain.GroupSearchResult, error) {
	limit = e.limitOr(limit, e.config.DefaultSearchLimit)
	ctx, span, cancel := e.start(ctx, "SearchGroups", attribute.Int("directory.limit", limit))
	defer cancel()
	defer span.End()

	page, err := e.search(ctx, "/groups", domain.ObjectGroup, query, limit, groupFields, groupPrefixFields)
	if err != nil {
		return nil, fail(span, fmt.Errorf("search groups: %w", err))
	}

	groups := make([]domain.GroupRecord, 0, len(page.Objects))
	for _, obj := range page.Objects {
		if g, ok := obj.(domain.GroupRecord); ok {
			groups = append(groups, g)
		}
	}
	total := totalOf(page, len(groups))
	span.SetAttributes(attribute.Int("directory.results", len(groups)), attribute.Int("directory.total", total))
	return &domain.GroupSearchResult{Groups: groups, TotalCount: total}, nil
}

// GetUserGroupMembership lists the groups a user directly belongs to.
func (e *Engine) GetUserGroupMembership(ctx context.Context, userIdentifier string) (*domain.MembershipResult, error) {
	ctx, span, cancel := e.start(ctx, "GetUserGroupMembership")
	defer cancel()
	defer span.End()

	userID, err := e.resolver.Resolve(ctx, userIdentifier, domain.ObjectUser)
	if err != nil {
		return nil, fail(span, fmt.Errorf("get user group membership: %w", err))
	}
	span.SetAttributes(attribute.String("directory.user_id", userID))

	page, err := e.paginator.Paginate(ctx, PageRequest{
		Path: "/users/" + url.PathEscape(userID) + "/memberOf",
		Query: url.Values{
			"$select": {strings.Join(groupFields, ",")},
			"$top":    {strconv.Itoa(e.config.MembershipPageSize)},
		},
		DefaultKind: domain.ObjectGroup,
	}, e.config.MembershipCeiling)
	if err != nil {
		return nil, fail(span, fmt.Errorf("get user group membership: %w", err))
	}

	groups := make([]domain.GroupRecord, 0, len(page.Objects))
	for _, obj := range page.Objects {
		if g, ok := obj.(domain.GroupRecord); ok {
			groups = append(groups, g)
		}
	}
	if page.Truncated {
		logger.Warn("directory: membership of %s truncated at %d groups", userID, e.config.MembershipCeiling)
	}
	span.SetAttributes(attribute.Int("directory.results", len(groups)))
	return &domain.MembershipResult{UserID: userID, Groups: groups}, nil
}

// GetGroupMembers lists the direct members of a group: users and nested groups.
func (e *Engine) GetGroupMembers(ctx context.Context, groupIdentifier string, limit int) (*domain.MembersResult, error) {
	limit = e.limitOr(limit, e.config.DefaultMembersLimit)
	ctx, span, cancel := e.start(ctx, "GetGroupMembers", attribute.Int("directory.limit", limit))
	defer cancel()
	defer span.End()

	groupID, err := e.resolver.Resolve(ctx, groupIdentifier, domain.ObjectGroup)
	if err != nil {
		return nil, fail(span, fmt.Errorf("get group members: %w", err))
	}
	span.SetAttributes(attribute.String("directory.group_id", groupID))

	page, err := e.paginator.Paginate(ctx, PageRequest{
		Path: "/groups/" + url.PathEscape(groupID) + "/members",
		Query: url.Values{
			"$select": {strings.Join(memberFields, ",")},
			"$top":    {strconv.Itoa(e.top(limit))},
		},
		DefaultKind: domain.ObjectUser,
	}, limit)
	if err != nil {
		return nil, fail(span, fmt.Errorf("get group members: %w", err))
	}

	span.SetAttributes(attribute.Int("directory.results", len(page.Objects)), attribute.Int("directory.pages", page.Pages))
	return &domain.MembersResult{GroupID: groupID, Members: page.Objects}, nil
}

// search runs a $search listing, retrying once as a startswith filter when
// the directory rejects the search expression.
func (e *Engine) search(ctx context.Context, path string, kind domain.ObjectKind, query string, limit int, fields, prefixFields []string) (*Page, error) {
	expr, err := BuildSearch(query)
	if err != nil {
		return nil, err
	}

	sel := strings.Join(fields, ",")
	top := strconv.Itoa(e.top(limit))

	page, err := e.paginator.Paginate(ctx, PageRequest{
		Path:        path,
		Query:       url.Values{"$search": {string(expr)}, "$select": {sel}, "$top": {top}},
		DefaultKind: kind,
	}, limit)
	if !microsoft.IsBadRequest(err) {
		return page, err
	}

	logger.Debug("directory: %s rejected search %s, falling back to prefix filter", path, expr)
	return e.paginator.Paginate(ctx, PageRequest{
		Path:        path,
		Query:       url.Values{"$filter": {PrefixFilter(prefixFields, strings.TrimSpace(query))}, "$select": {sel}, "$top": {top}},
		DefaultKind: kind,
	}, limit)
}

func (e *Engine) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, e.config.OperationTimeout)
	ctx, span := e.tracer.Start(ctx, "directory."+op, trace.WithAttributes(attrs...))
	return ctx, span, cancel
}

func (e *Engine) limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func (e *Engine) top(limit int) int {
	return min(limit, e.config.MaxPageSize)
}

func totalOf(page *Page, returned int) int {
	if page.TotalCount != nil {
		return *page.TotalCount
	}
	return returned
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(domain.KindOf(err)))
	return err
}
