package directory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

// SearchExpression is an AND-combined Graph $search value such as
// `"Singh" AND "Arun"`.
type SearchExpression string

// Tokenize splits a free-text query into search terms.
// Whitespace and commas separate terms; a double-quoted phrase is kept as a
// single term, and an unterminated quote runs to the end of the input.
// Empty terms are dropped and order is preserved.
func Tokenize(query string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		if tok := strings.TrimSpace(current.String()); tok != "" {
			tokens = append(tokens, tok)
		}
		current.Reset()
	}

	for _, r := range query {
		switch {
		case r == '"':
			flush()
			quoted = !quoted
		case !quoted && (unicode.IsSpace(r) || r == ','):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// BuildSearch converts a free-text query into an AND-tokenized search
// expression. Each term must match independently, so word order, middle
// names and "Surname, Given" forms all match the same objects.
func BuildSearch(query string) (SearchExpression, error) {
	return buildSearch(query, "")
}

// BuildFieldSearch is BuildSearch with every term scoped to a single
// property, e.g. `"displayName:Arun" AND "displayName:Singh"`.
func BuildFieldSearch(query, field string) (SearchExpression, error) {
	return buildSearch(query, field)
}

func buildSearch(query, field string) (SearchExpression, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: search query %q has no searchable terms", domain.ErrInvalidInput, query)
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		if field != "" {
			tok = field + ":" + tok
		}
		quoted[i] = `"` + escapeSearchTerm(tok) + `"`
	}

	return SearchExpression(strings.Join(quoted, " AND ")), nil
}

// escapeSearchTerm escapes backslashes, the only character besides the
// delimiting quote that is special inside a quoted $search term.
func escapeSearchTerm(term string) string {
	return strings.ReplaceAll(term, `\`, `\\`)
}

// FilterLiteral quotes s as an OData string literal.
func FilterLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// EqualsFilter builds `a eq 'v' or b eq 'v'` over fields.
func EqualsFilter(fields []string, value string) string {
	literal := FilterLiteral(value)
	clauses := make([]string, len(fields))
	for i, f := range fields {
		clauses[i] = f + " eq " + literal
	}
	return strings.Join(clauses, " or ")
}

// PrefixFilter builds `startswith(a,'v') or startswith(b,'v')` over fields.
func PrefixFilter(fields []string, value string) string {
	literal := FilterLiteral(value)
	clauses := make([]string, len(fields))
	for i, f := range fields {
		clauses[i] = "startswith(" + f + "," + literal + ")"
	}
	return strings.Join(clauses, " or ")
}
