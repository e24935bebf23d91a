package report

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"northwind-dashboard/internal/models"
)

// Selection is the set of countries and years a caller wants to see.
// An empty list selects nothing on that axis.
type Selection struct {
	Countries []string `json:"countries"`
	Years     []int    `json:"years"`
}

// AllSelection selects every country and year available in r.
func AllSelection(r *Report) Selection {
	return Selection{
		Countries: slices.Clone(r.Countries),
		Years:     slices.Clone(r.Years),
	}
}

// Filter keeps the rows whose country and year are both selected, in input order.
func Filter(detail []models.SalesDetail, sel Selection) []models.SalesDetail {
	countries := lo.SliceToMap(sel.Countries, func(c string) (string, struct{}) {
		return c, struct{}{}
	})
	years := lo.SliceToMap(sel.Years, func(y int) (int, struct{}) {
		return y, struct{}{}
	})

	return lo.Filter(detail, func(d models.SalesDetail, _ int) bool {
		_, countryOK := countries[d.Country]
		_, yearOK := years[d.Year]
		return countryOK && yearOK
	})
}

type Projection struct {
	Selection      Selection                 `json:"selection"`
	SalesDetail    []models.SalesDetail      `json:"sales_detail"`
	SalesByYear    []models.YearSales        `json:"sales_by_year"`
	SalesByCountry []models.CountrySales     `json:"sales_by_country"`
	CountryYear    []models.CountryYearSales `json:"country_year"`
	TotalSales     decimal.Decimal           `json:"total_sales"`
}

// Project filters detail by sel and regroups the result.
func Project(detail []models.SalesDetail, sel Selection) *Projection {
	filtered := Filter(detail, sel)
	return &Projection{
		Selection:      sel,
		SalesDetail:    filtered,
		SalesByYear:    SalesByYear(filtered),
		SalesByCountry: SalesByCountry(filtered),
		CountryYear:    SalesByCountryYear(filtered),
		TotalSales:     TotalSales(filtered),
	}
}
