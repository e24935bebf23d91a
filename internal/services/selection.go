package services

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	apperrors "northwind-dashboard/internal/errors"
	"northwind-dashboard/internal/report"
)

// ResolveSelection turns raw country and year values into a Selection over
// filters. A nil slice means the caller did not mention that axis and gets
// every available value. A non-nil slice is deduplicated and narrowed to the
// available values, so an empty one selects nothing.
func ResolveSelection(countries, years []string, filters Filters) (report.Selection, error) {
	sel := report.Selection{
		Countries: filters.Countries,
		Years:     filters.Years,
	}

	if countries != nil {
		sel.Countries = lo.Intersect(filters.Countries, lo.Uniq(nonEmpty(countries)))
	}

	if years != nil {
		parsed := make([]int, 0, len(years))
		for _, raw := range nonEmpty(years) {
			year, err := strconv.Atoi(raw)
			if err != nil {
				return report.Selection{}, apperrors.BadRequestWrap(err, "year must be an integer: "+strconv.Quote(raw))
			}
			parsed = append(parsed, year)
		}
		sel.Years = lo.Intersect(filters.Years, lo.Uniq(parsed))
	}

	return sel, nil
}

func nonEmpty(values []string) []string {
	return lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
}
