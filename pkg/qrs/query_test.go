package qrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParamsToValues(t *testing.T) {
	params := NewQueryParams().WithFilter("name eq 'Sales'").WithOrderBy("-modifiedDate")
	params.Privileges = true

	values := params.ToValues()
	assert.Equal(t, "name eq 'Sales'", values.Get("filter"))
	assert.Equal(t, "-modifiedDate", values.Get("orderby"))
	assert.Equal(t, "true", values.Get("privileges"))
}

func TestQueryParamsEmpty(t *testing.T) {
	assert.Empty(t, NewQueryParams().ToValues())
}

func TestFilterByName(t *testing.T) {
	assert.Equal(t, "name eq 'Sales'", FilterByName("Sales"))
	assert.Equal(t, `name eq 'O\'Brien'`, FilterByName("O'Brien"))
}

func TestFilterByNameAndStream(t *testing.T) {
	assert.Equal(t,
		"name eq 'Sales' and stream.name eq 'Finance'",
		FilterByNameAndStream("Sales", "Finance"))
}
