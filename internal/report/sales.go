package report

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"northwind-dashboard/internal/models"
)

// JoinSalesDetail computes Order ⋈ OrderLineItem ⋈ Customer with inner-join
// semantics. Rows come out in order-table order, then line-item order.
func JoinSalesDetail(orders []models.Order, items []models.OrderLineItem, customers []models.Customer, policy DatePolicy) ([]models.SalesDetail, Diagnostics, error) {
	var diag Diagnostics

	itemsByOrder := lo.GroupBy(items, func(it models.OrderLineItem) int {
		return it.OrderID
	})
	countryByCustomer := lo.SliceToMap(customers, func(c models.Customer) (string, string) {
		return c.ID, c.Country
	})

	known := make(map[int]struct{}, len(orders))
	detail := make([]models.SalesDetail, 0, len(items))

	for _, order := range orders {
		known[order.ID] = struct{}{}

		lines := itemsByOrder[order.ID]
		if len(lines) == 0 {
			continue
		}

		country, ok := countryByCustomer[order.CustomerID]
		if !ok {
			diag.UnmatchedCustomerOrders++
			diag.UnmatchedCustomerLineItems += len(lines)
			continue
		}

		year, err := orderYear(order)
		if err != nil {
			if policy == DatePolicySkip {
				diag.SkippedDateOrders++
				diag.SkippedDateRows += len(lines)
				continue
			}
			return nil, diag, err
		}

		for _, it := range lines {
			detail = append(detail, models.SalesDetail{
				OrderID:    order.ID,
				CustomerID: order.CustomerID,
				Country:    country,
				Year:       year,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				TotalSales: it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			})
		}
	}

	diag.OrphanLineItems = lo.CountBy(items, func(it models.OrderLineItem) bool {
		_, ok := known[it.OrderID]
		return !ok
	})

	return detail, diag, nil
}

var errEmptyDate = errors.New("empty order date")

// orderYear reads slash dates month first, so 07/04/2012 is July 4.
func orderYear(order models.Order) (int, error) {
	value := strings.TrimSpace(order.OrderDate)
	if value == "" {
		return 0, &DateParseError{OrderID: order.ID, Value: order.OrderDate, Err: errEmptyDate}
	}
	t, err := dateparse.ParseIn(value, time.UTC, dateparse.PreferMonthFirst(true))
	if err != nil {
		return 0, &DateParseError{OrderID: order.ID, Value: order.OrderDate, Err: err}
	}
	return t.Year(), nil
}

// SalesByYear sums TotalSales per year, ascending by year.
func SalesByYear(detail []models.SalesDetail) []models.YearSales {
	totals := make(map[int]decimal.Decimal)
	for _, d := range detail {
		totals[d.Year] = totals[d.Year].Add(d.TotalSales)
	}

	result := make([]models.YearSales, 0, len(totals))
	for year, total := range totals {
		result = append(result, models.YearSales{Year: year, TotalSales: total})
	}
	slices.SortFunc(result, func(a, b models.YearSales) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return result
}

// SalesByCountry sums TotalSales per country, descending by total.
func SalesByCountry(detail []models.SalesDetail) []models.CountrySales {
	totals := make(map[string]decimal.Decimal)
	for _, d := range detail {
		totals[d.Country] = totals[d.Country].Add(d.TotalSales)
	}

	result := make([]models.CountrySales, 0, len(totals))
	for country, total := range totals {
		result = append(result, models.CountrySales{Country: country, TotalSales: total})
	}
	slices.SortFunc(result, func(a, b models.CountrySales) int {
		if c := b.TotalSales.Cmp(a.TotalSales); c != 0 {
			return c
		}
		return cmp.Compare(a.Country, b.Country)
	})
	return result
}

// SalesByCountryYear sums TotalSales per (country, year), ordered by country then year.
func SalesByCountryYear(detail []models.SalesDetail) []models.CountryYearSales {
	type key struct {
		country string
		year    int
	}
	totals := make(map[key]decimal.Decimal)
	for _, d := range detail {
		k := key{d.Country, d.Year}
		totals[k] = totals[k].Add(d.TotalSales)
	}

	result := make([]models.CountryYearSales, 0, len(totals))
	for k, total := range totals {
		result = append(result, models.CountryYearSales{Country: k.country, Year: k.year, TotalSales: total})
	}
	slices.SortFunc(result, func(a, b models.CountryYearSales) int {
		if c := cmp.Compare(a.Country, b.Country); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})
	return result
}

func TotalSales(detail []models.SalesDetail) decimal.Decimal {
	return lo.Reduce(detail, func(sum decimal.Decimal, d models.SalesDetail, _ int) decimal.Decimal {
		return sum.Add(d.TotalSales)
	}, decimal.Zero)
}

func AvailableCountries(detail []models.SalesDetail) []string {
	countries := lo.Uniq(lo.Map(detail, func(d models.SalesDetail, _ int) string {
		return d.Country
	}))
	slices.Sort(countries)
	return countries
}

func AvailableYears(detail []models.SalesDetail) []int {
	years := lo.Uniq(lo.Map(detail, func(d models.SalesDetail, _ int) int {
		return d.Year
	}))
	slices.Sort(years)
	return years
}
