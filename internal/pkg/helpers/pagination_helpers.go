package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// NormalizePageLimit clamps page and limit to their valid ranges.
func NormalizePageLimit(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}

// CalculateOffsetLimit converts a 1-based page number to an SQL offset.
func CalculateOffsetLimit(page, limit int) (offset uint64, normalizedLimit int) {
	page, limit = NormalizePageLimit(page, limit)
	return uint64((page - 1) * limit), limit
}

// TotalPages computes ceil(totalItems/limit).
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(limit)))
}

// ParsePaginationParams extracts and validates pagination parameters from
// the request query string.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	return page, limit
}
