package common

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams is a page selection parsed from the request query
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DefaultPaginationParams selects the first page at the default size
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Page: 1, PageSize: defaultPageSize}
}

// ExtractPaginationParams reads page and page_size from the query string.
// Absent, malformed, or non-positive values fall back to the defaults, and
// page_size is capped so a single request cannot demand the whole registry.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()
	q := r.URL.Query()

	if page, ok := queryInt(q, "page"); ok {
		params.Page = page
	}
	if size, ok := queryInt(q, "page_size"); ok {
		params.PageSize = min(size, maxPageSize)
	}
	return params
}

func queryInt(q url.Values, key string) (int, bool) {
	raw := q.Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CalculateOffset converts the page selection to an offset into the full
// result set
func (p PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginationInfo describes the window a listing response covers
type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// BuildPaginationMeta derives the listing metadata for one page out of a
// result set with total items
func BuildPaginationMeta(page, pageSize, total int) *PaginationInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
