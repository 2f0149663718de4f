package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageQuery(t *testing.T) {
	app := fiber.New()
	var got PageQuery
	app.Get("/items", func(c *fiber.Ctx) error {
		got = ParsePageQuery(c, 10, 50)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name  string
		query string
		want  PageQuery
	}{
		{"defaults", "", PageQuery{Page: 1, Limit: 10, Skip: 0}},
		{"explicit page", "page=3&limit=20", PageQuery{Page: 3, Limit: 20, Skip: 40}},
		{"limit clamped", "limit=500", PageQuery{Page: 1, Limit: 50, Skip: 0}},
		{"negative page", "page=-2", PageQuery{Page: 1, Limit: 10, Skip: 0}},
		{"zero limit falls back", "limit=0", PageQuery{Page: 1, Limit: 10, Skip: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/items?"+tc.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(100, 0))
	assert.EqualValues(t, 0, TotalPages(0, 10))
	assert.EqualValues(t, 1, TotalPages(10, 10))
	assert.EqualValues(t, 2, TotalPages(11, 10))
	assert.EqualValues(t, 34, TotalPages(100, 3))
}
