package serverutils

import (
	"fmt"
	"strconv"
	"strings"

	"stockflow/pkg/listquery"

	"github.com/gofiber/fiber/v2"
)

// ParseListQuery reads list parameters from the query string:
//
//	?sort=comment&desc=true&offset=20&first=10&filter.status.equalTo=DRAFT
//
// Filter operands stay strings; the list backends coerce them.
func ParseListQuery(ctx *fiber.Ctx, defaultSort string, defaultPageSize int) (listquery.ListQuery, error) {
	sortKey := ctx.Query("sort", defaultSort)
	q := listquery.New(sortKey, defaultPageSize)
	if ctx.QueryBool("desc", false) {
		q = q.WithSortDirection(sortKey, listquery.Desc)
	}

	offset, err := queryInt(ctx, "offset", 0)
	if err != nil {
		return q, err
	}
	first, err := queryInt(ctx, "first", defaultPageSize)
	if err != nil {
		return q, err
	}
	if offset < 0 || first < 0 {
		return q, fiber.NewError(fiber.StatusBadRequest, "offset and first must not be negative")
	}
	q = q.WithPage(offset, first)

	for key, value := range ctx.Queries() {
		rest, ok := strings.CutPrefix(key, "filter.")
		if !ok {
			continue
		}
		field, op, ok := strings.Cut(rest, ".")
		if !ok || field == "" {
			return q, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("malformed filter %q", key))
		}
		operator := listquery.Operator(op)
		if !operator.Valid() {
			return q, fmt.Errorf("%w %q", listquery.ErrUnknownOperator, op)
		}
		q = q.WithFilter(field, operator, value)
	}
	return q, nil
}

func queryInt(ctx *fiber.Ctx, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a number", key))
	}
	return n, nil
}
