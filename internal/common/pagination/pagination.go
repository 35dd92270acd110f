// Package pagination splits list results into pages for API responses.
package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Config holds pagination limits.
type Config struct {
	DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" envDefault:"20"`
	MaxLimit     int `env:"PAGINATION_MAX_LIMIT"     envDefault:"100"`
}

// DefaultConfig returns limit=20, max=100.
func DefaultConfig() Config {
	return Config{DefaultLimit: 20, MaxLimit: 100}
}

// Validate checks that the default limit fits under the maximum.
func (c Config) Validate() error {
	if c.MaxLimit < 1 {
		return fmt.Errorf("PAGINATION_MAX_LIMIT must be at least 1, got %d", c.MaxLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT must be between 1 and %d, got %d", c.MaxLimit, c.DefaultLimit)
	}
	return nil
}

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ErrInvalidParams is wrapped by every ParseQueryParams error.
var ErrInvalidParams = errors.New("invalid query parameter")

// ParseQueryParams reads page and limit from the query string. Missing values
// take the defaults; a zero Config means DefaultConfig.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	params := Params{Page: 1, Limit: cfg.DefaultLimit}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("%w: page must be a positive integer", ErrInvalidParams)
		}
		params.Page = page
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > cfg.MaxLimit {
			return params, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParams, cfg.MaxLimit)
		}
		params.Limit = limit
	}
	return params, nil
}

// CalculateOffset returns the index of the first item on page.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total/limit), and at least 1.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Response is a page of items with its metadata.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// Paginate returns the page of items selected by p. A page past the end
// yields an empty, non-nil Data slice.
func Paginate[T any](items []T, p Params) Response[T] {
	total := len(items)
	start := min(CalculateOffset(p.Page, p.Limit), total)
	end := min(start+p.Limit, total)

	data := make([]T, end-start)
	copy(data, items[start:end])
	return Response[T]{
		Data: data,
		Pagination: Metadata{
			Total:      int64(total),
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: CalculateTotalPages(int64(total), p.Limit),
		},
	}
}
