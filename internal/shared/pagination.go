package shared

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultPage is used when the page query parameter is absent or invalid.
	DefaultPage = 1
	// DefaultLimit is used when the limit query parameter is absent or invalid.
	DefaultLimit = 10
	// MaxLimit caps page sizes requested by clients.
	MaxLimit = 100
)

// PageRequest is the page/limit pair parsed from a query string.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the number of documents to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageFromRequest reads page and limit query parameters.
func PageFromRequest(r *http.Request) PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{CurrentPage: page, TotalPages: totalPages, TotalCount: total, PageSize: perPage}
}
