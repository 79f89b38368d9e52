package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/odontocare/clinic-api/internal/projection"
)

// ProjectionOptions reads the shared list-view query parameters. Every list
// endpoint supports the same facets: free-text search, status, category, a
// rolling date range and a named sort.
func ProjectionOptions(c *gin.Context) projection.Options {
	return projection.Options{
		SearchTerm: c.Query("search"),
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		DateRange:  projection.DateRange(c.Query("range")),
		SortBy:     c.Query("sort_by"),
		SortOrder:  projection.SortOrder(c.Query("sort_order")),
		Now:        time.Now(),
	}
}
