package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=10", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p := GetPaginationParams(c)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset)
}

func TestNewPaginationFallbacks(t *testing.T) {
	p := NewPagination(-1, 500)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestWindow(t *testing.T) {
	start, end := NewPagination(2, 5).Window(7)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)

	start, end = NewPagination(4, 5).Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}
