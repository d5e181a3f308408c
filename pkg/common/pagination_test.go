package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPaginationParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}

func TestExtractPaginationParamsFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects?page=3&page_size=5", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 5, params.PageSize)
	assert.Equal(t, 10, params.CalculateOffset())
}

func TestExtractPaginationParamsIgnoresBadValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects?page=zero&page_size=-4", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}

func TestExtractPaginationParamsCapsPageSize(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects?page_size=5000", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, maxPageSize, params.PageSize)
}

func TestBuildPaginationMetaMiddlePage(t *testing.T) {
	meta := BuildPaginationMeta(2, 10, 35)

	assert.Equal(t, 4, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestBuildPaginationMetaEmptySet(t *testing.T) {
	meta := BuildPaginationMeta(1, 10, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
