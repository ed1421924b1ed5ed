// file: internal/models/pagination.go
package models

// PaginationMeta describes the page that was returned.
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// PaginatedResponse wraps a page of results with its metadata. Filters echoes
// the filter set the page was built from so clients can re-render controls.
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Filters    any            `json:"filters,omitempty"`
}
