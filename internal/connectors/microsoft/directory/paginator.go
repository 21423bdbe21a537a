package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
	"github.com/custodia-labs/entra-directory/internal/core/ports/driven"
	"github.com/custodia-labs/entra-directory/internal/logger"
)

// DefaultMaxPages bounds how many continuation links one call will follow.
const DefaultMaxPages = 100

// PageRequest describes the first request of a paginated listing.
type PageRequest struct {
	// Path is the collection path, e.g. "/groups/{id}/members".
	Path string
	// Query holds $search, $filter, $select and $top options.
	Query url.Values
	// DefaultKind is assumed for objects without an @odata.type.
	DefaultKind domain.ObjectKind
}

// Page is the accumulated result of a paginated listing.
type Page struct {
	// Objects are in server order, never more than the requested limit.
	Objects []domain.DirectoryObject
	// TotalCount is the first page's @odata.count, nil if absent.
	TotalCount *int
	// Pages is the number of responses fetched.
	Pages int
	// Truncated is set when the listing stopped with objects left unread.
	Truncated bool
}

// Paginator follows @odata.nextLink continuation links until a result
// limit is reached or the listing is exhausted. Pages are fetched strictly
// in sequence; the paginator keeps no state between calls.
type Paginator struct {
	transport driven.Transport
	maxPages  int
}

// NewPaginator creates a paginator. maxPages <= 0 uses DefaultMaxPages.
func NewPaginator(transport driven.Transport, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Paginator{transport: transport, maxPages: maxPages}
}

// Paginate fetches up to limit objects. A limit <= 0 returns an empty page
// without any request. On error everything fetched so far is discarded.
func (p *Paginator) Paginate(ctx context.Context, req PageRequest, limit int) (*Page, error) {
	switch req.DefaultKind {
	case domain.ObjectUser, domain.ObjectGroup:
	default:
		return nil, fmt.Errorf("%w: paginate %s: unknown default kind %q", domain.ErrInvalidInput, req.Path, req.DefaultKind)
	}

	page := &Page{Objects: []domain.DirectoryObject{}}
	if limit <= 0 {
		return page, nil
	}

	query := url.Values{}
	for k, v := range req.Query {
		query[k] = append([]string(nil), v...)
	}
	query.Set("$count", "true")

	next := driven.Request{Path: req.Path, Query: query, Header: advancedQueryHeader()}
	var previousLink string

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrTransient, err)
		}

		resp, err := p.transport.Do(ctx, next)
		if err != nil {
			return nil, err
		}

		l, err := decodeListing(resp.Body)
		if err != nil {
			return nil, err
		}

		page.Pages++
		if page.Pages == 1 {
			page.TotalCount = l.Count
		}

		for i, raw := range l.Value {
			obj, ok, err := decodeObject(raw, req.DefaultKind)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			page.Objects = append(page.Objects, obj)
			if len(page.Objects) >= limit {
				page.Truncated = i < len(l.Value)-1 || l.NextLink != ""
				return page, nil
			}
		}

		switch {
		case l.NextLink == "":
			return page, nil
		case l.NextLink == previousLink:
			logger.Warn("directory: %s returned the same continuation link twice, stopping", req.Path)
			return page, nil
		case page.Pages >= p.maxPages:
			page.Truncated = true
			logger.Warn("directory: %s exceeded %d pages, stopping with %d objects", req.Path, p.maxPages, len(page.Objects))
			return page, nil
		}

		logger.Debug("directory: %s page %d returned %d objects, following continuation link", req.Path, page.Pages, len(l.Value))
		previousLink = l.NextLink
		next = driven.Request{URL: l.NextLink, Header: advancedQueryHeader()}
	}
}

// advancedQueryHeader opts in to the eventually consistent index that
// supports $search and $count.
func advancedQueryHeader() http.Header {
	h := http.Header{}
	h.Set("ConsistencyLevel", "eventual")
	return h
}
