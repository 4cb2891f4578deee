package handlers

import (
	"strconv"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 100

// pageResponse is the envelope of every paginated listing.
type pageResponse[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func newPageResponse[T any](items []T, total int64, page repositories.Page) pageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{Count: total, Page: page.Number, PageSize: page.Size, Results: items}
}

// parsePage reads ?page= (1-based) and ?page_size= (capped at maxPageSize).
func parsePage(c *fiber.Ctx, defaultSize int) (repositories.Page, error) {
	page := repositories.Page{Number: 1, Size: defaultSize}

	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperr.ValidationFields(map[string]string{"page": "must be a positive integer"})
		}
		page.Number = n
	}
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperr.ValidationFields(map[string]string{"page_size": "must be a positive integer"})
		}
		page.Size = n
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	return page, nil
}
