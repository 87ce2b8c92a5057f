package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailhead/internal/core/usecases"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// parsePagination reads offset/limit, clamping bad values to the defaults.
func parsePagination(c *fiber.Ctx) Pagination {
	return clampPagination(c.QueryInt("offset", 0), c.QueryInt("limit", defaultPageLimit))
}

// clampPagination applies the REST paging bounds; GraphQL arguments go through it too.
func clampPagination(offset, limit int) Pagination {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return Pagination{Offset: offset, Limit: limit}
}

// paginate slices items to the requested page and sets Link and X-Total-Count.
func paginate[T any](c *fiber.Ctx, items []T) []T {
	p := parsePagination(c)
	p.Total = len(items)
	SetLinkHeaders(c, p)
	c.Set("X-Total-Count", strconv.Itoa(p.Total))
	return usecases.Page(items, p.Offset, p.Limit)
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
// Other query parameters of the current request are carried over.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	query := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		query.Add(string(k), string(v))
	})

	link := func(offset int, rel string) string {
		query.Set("offset", strconv.Itoa(offset))
		query.Set("limit", strconv.Itoa(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, query.Encode(), rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		links = append(links, link(prev, "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	lastOffset := p.Total - p.Limit
	if lastOffset < 0 {
		lastOffset = 0
	}
	links = append(links, link(lastOffset, "last"))

	c.Set("Link", strings.Join(links, ", "))
}
