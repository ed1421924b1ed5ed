// file: internal/response/pagination.go
package response

import (
	"fmt"
	"net/url"
	"strconv"

	"speakerhub/internal/models"
)

// PaginationLinks carries navigation URLs for a paginated response.
type PaginationLinks struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Self  string `json:"self"`
}

// ParsePage reads the page query parameter, defaulting to 1 on garbage. The
// service layer owns clamping against the real page count.
func ParsePage(values url.Values) int {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildLinks derives navigation URLs from the current request URL, keeping
// every filter parameter intact and swapping only page.
func BuildLinks(base *url.URL, meta models.PaginationMeta) *PaginationLinks {
	links := &PaginationLinks{
		First: pageURL(base, 1),
		Last:  pageURL(base, meta.TotalPages),
		Self:  pageURL(base, meta.CurrentPage),
	}
	if meta.HasNext {
		links.Next = pageURL(base, meta.CurrentPage+1)
	}
	if meta.HasPrev {
		links.Prev = pageURL(base, meta.CurrentPage-1)
	}
	return links
}

func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}
