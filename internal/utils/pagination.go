package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/constants"
)

// PaginationParams holds the clamped page window for list endpoints.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the pagination envelope on list responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page/limit from the query string, clamping both
// to the allowed bounds. Malformed or missing values fall back to defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page := queryInt(c, "page", constants.MinPageSize)
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	limit := queryInt(c, "limit", constants.DefaultPageSize)
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
