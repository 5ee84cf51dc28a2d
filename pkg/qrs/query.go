package qrs

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryParams represents query parameters for list and count requests.
type QueryParams struct {
	// Filter is a platform filter expression, e.g. `name eq 'Sales'`.
	Filter string

	// OrderBy orders the result set, e.g. `name` or `-modifiedDate`.
	OrderBy string

	// Privileges asks the platform to include the caller's privileges on
	// each returned resource.
	Privileges bool
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithFilter sets the filter expression.
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithOrderBy sets the ordering expression.
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}

	if q.OrderBy != "" {
		values.Set("orderby", q.OrderBy)
	}

	if q.Privileges {
		values.Set("privileges", "true")
	}

	return values
}

// FilterByName builds a filter expression matching an exact display name.
func FilterByName(name string) string {
	return fmt.Sprintf("name eq '%s'", escapeFilterValue(name))
}

// FilterByNameAndStream builds a filter expression matching an app by name
// within a named stream.
func FilterByNameAndStream(name, stream string) string {
	return fmt.Sprintf("name eq '%s' and stream.name eq '%s'",
		escapeFilterValue(name), escapeFilterValue(stream))
}

func escapeFilterValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
