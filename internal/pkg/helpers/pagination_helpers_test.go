package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePageLimit(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"valid values pass through", 3, 25, 3, 25},
		{"zero page becomes first", 0, 10, 1, 10},
		{"negative page becomes first", -2, 10, 1, 10},
		{"zero limit gets default", 1, 0, 1, DefaultPageSize},
		{"oversized limit gets default", 1, MaxPageSize + 1, 1, DefaultPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := NormalizePageLimit(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	offset, _ = CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(42, 10))
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/reports?"+query, nil)
		return c
	}

	page, limit := ParsePaginationParams(newContext("page=4&limit=15"))
	assert.Equal(t, 4, page)
	assert.Equal(t, 15, limit)

	page, limit = ParsePaginationParams(newContext("page=abc&limit=-1"))
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, limit)

	page, limit = ParsePaginationParams(newContext(""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
