// file: internal/response/pagination_test.go
package response

import (
	"net/url"
	"testing"

	"speakerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}

	for _, tt := range tests {
		values, err := url.ParseQuery(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ParsePage(values), "query %q", tt.raw)
	}
}

func TestBuildLinks(t *testing.T) {
	base, err := url.Parse("/speakers?search=fin&expertise_id=2&page=2")
	require.NoError(t, err)

	links := BuildLinks(base, models.PaginationMeta{
		CurrentPage: 2,
		TotalPages:  4,
		HasNext:     true,
		HasPrev:     true,
	})

	// Filters survive page swaps.
	for _, link := range []string{links.First, links.Last, links.Next, links.Prev, links.Self} {
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "fin", u.Query().Get("search"))
		assert.Equal(t, "2", u.Query().Get("expertise_id"))
	}

	next, _ := url.Parse(links.Next)
	assert.Equal(t, "3", next.Query().Get("page"))
	prev, _ := url.Parse(links.Prev)
	assert.Equal(t, "1", prev.Query().Get("page"))
	last, _ := url.Parse(links.Last)
	assert.Equal(t, "4", last.Query().Get("page"))
}

func TestBuildLinksFirstPage(t *testing.T) {
	base, err := url.Parse("/speakers")
	require.NoError(t, err)

	links := BuildLinks(base, models.PaginationMeta{
		CurrentPage: 1,
		TotalPages:  1,
	})

	assert.Empty(t, links.Next)
	assert.Empty(t, links.Prev)
	assert.NotEmpty(t, links.Self)
}
