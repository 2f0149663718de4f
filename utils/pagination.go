package utils

import "github.com/gofiber/fiber/v2"

type PageQuery struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePageQuery reads page/limit query params, clamping limit to maxLimit.
func ParsePageQuery(c *fiber.Ctx, defaultLimit, maxLimit int) PageQuery {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return PageQuery{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// TotalPages computes the page count for a paginated response.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}
