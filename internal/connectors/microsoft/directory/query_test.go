package directory

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/entra-directory/internal/core/domain"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single word", "Arun", []string{"Arun"}},
		{"surname comma given", "Singh, Arun", []string{"Singh", "Arun"}},
		{"surrounding whitespace", "  Arun \t Singh\n", []string{"Arun", "Singh"}},
		{"quoted phrase", `"Arun Kumar" Singh`, []string{"Arun Kumar", "Singh"}},
		{"quoted phrase keeps commas", `"Singh, Arun"`, []string{"Singh, Arun"}},
		{"unterminated quote", `Singh "Arun Kumar`, []string{"Singh", "Arun Kumar"}},
		{"only separators", ", , ,", nil},
		{"empty quotes", `"" Arun`, []string{"Arun"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.query))
		})
	}
}

func TestBuildSearch(t *testing.T) {
	tests := []struct {
		query string
		want  SearchExpression
	}{
		{"Arun", `"Arun"`},
		{"Singh, Arun", `"Singh" AND "Arun"`},
		{"Arun Kumar Singh", `"Arun" AND "Kumar" AND "Singh"`},
		{`"Finance Team" London`, `"Finance Team" AND "London"`},
		{`back\slash`, `"back\\slash"`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := BuildSearch(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSearch_InvalidInput(t *testing.T) {
	for _, query := range []string{"", "   ", ", ,", `""`} {
		_, err := BuildSearch(query)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "query %q", query)
	}
}

func TestBuildFieldSearch(t *testing.T) {
	got, err := BuildFieldSearch("Singh, Arun", "displayName")
	require.NoError(t, err)
	assert.Equal(t, SearchExpression(`"displayName:Singh" AND "displayName:Arun"`), got)
}

func TestFilters(t *testing.T) {
	assert.Equal(t, "'O''Brien'", FilterLiteral("O'Brien"))
	assert.Equal(t,
		"mail eq 'a@example.com' or userPrincipalName eq 'a@example.com'",
		EqualsFilter([]string{"mail", "userPrincipalName"}, "a@example.com"))
	assert.Equal(t,
		"startswith(displayName,'Fin') or startswith(mail,'Fin')",
		PrefixFilter([]string{"displayName", "mail"}, "Fin"))
}

func TestBuildSearch_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	words := gen.SliceOf(gen.Identifier()).SuchThat(func(ws []string) bool { return len(ws) > 0 })
	separator := gen.OneConstOf(" ", ",", ", ", "  ", "\t")

	properties.Property("every term is quoted and AND-joined in order", prop.ForAll(
		func(ws []string, sep string) bool {
			got, err := BuildSearch(strings.Join(ws, sep))
			if err != nil {
				return false
			}
			quoted := make([]string, len(ws))
			for i, w := range ws {
				quoted[i] = `"` + w + `"`
			}
			return string(got) == strings.Join(quoted, " AND ")
		},
		words, separator,
	))

	properties.Property("separators never change the term list", prop.ForAll(
		func(ws []string, sep string) bool {
			a := Tokenize(strings.Join(ws, " "))
			b := Tokenize(strings.Join(ws, sep))
			return strings.Join(a, "\x00") == strings.Join(b, "\x00")
		},
		words, separator,
	))

	properties.Property("a quoted phrase is a single term", prop.ForAll(
		func(ws []string) bool {
			phrase := strings.Join(ws, " ")
			tokens := Tokenize(`"` + phrase + `"`)
			return len(tokens) == 1 && tokens[0] == phrase
		},
		words,
	))

	properties.TestingRun(t)
}
