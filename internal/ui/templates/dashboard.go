// Package templates renders the dashboard page shell. Live fragments and
// chart data arrive over SSE from /sse/dashboard.
package templates

import (
	"strconv"

	"github.com/samber/lo"

	"northwind-dashboard/internal/services"
)

type recommendation struct {
	Title string
	Body  string
}

var recommendations = []recommendation{
	{"Product diversification", "Add variety to the categories that carry only a few products."},
	{"Inventory management", "Review discontinued products and consider reactivating the ones that still sell."},
	{"Market strategy", "Explore opportunities in the countries with the lowest sales volume."},
	{"Trend analysis", "Investigate the factors behind the year over year swings in sales."},
}

func yearLabels(filters services.Filters) []string {
	return lo.Map(filters.Years, func(y int, _ int) string { return strconv.Itoa(y) })
}

// initialSignals preselects every country and year and starts the chart
// signals empty until the first SSE patch.
func initialSignals(filters services.Filters) map[string]any {
	countries := filters.Countries
	if countries == nil {
		countries = []string{}
	}
	return map[string]any{
		"countries":    countries,
		"years":        yearLabels(filters),
		"yearData":     []any{},
		"countryData":  []any{},
		"categoryData": []any{},
		"statusData":   []any{},
	}
}
