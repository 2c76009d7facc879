package utils

import "net/url"

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// ParsePagination reads page and per_page from a query string, clamping per_page.
func ParsePagination(query url.Values) (page, perPage int) {
	page = ParseInt(query.Get("page"), 1)
	perPage = ParseInt(query.Get("per_page"), defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
