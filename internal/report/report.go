// Package report derives the dashboard's aggregate views from the Northwind
// base tables.
//
// Every function here is pure: it reads its inputs, never mutates them, and
// returns freshly allocated results. Build runs the full derivation once per
// load; Project re-runs the sales groupings over a filtered SalesDetail for
// each country/year selection.
package report

import (
	"fmt"

	"github.com/samber/lo"

	"northwind-dashboard/internal/models"
)

type DatePolicy int

const (
	// DatePolicyFail aborts the build on the first order date that does not parse.
	DatePolicyFail DatePolicy = iota
	// DatePolicySkip excludes the offending order's rows and counts them in Diagnostics.
	DatePolicySkip
)

func ParseDatePolicy(s string) (DatePolicy, error) {
	switch s {
	case "fail", "":
		return DatePolicyFail, nil
	case "skip":
		return DatePolicySkip, nil
	default:
		return DatePolicyFail, fmt.Errorf("unknown date policy %q", s)
	}
}

func (p DatePolicy) String() string {
	if p == DatePolicySkip {
		return "skip"
	}
	return "fail"
}

type Options struct {
	DatePolicy DatePolicy
}

// Diagnostics counts the rows each join or policy excluded from the views.
type Diagnostics struct {
	UnmatchedCustomerOrders    int `json:"unmatched_customer_orders"`
	UnmatchedCustomerLineItems int `json:"unmatched_customer_line_items"`
	OrphanLineItems            int `json:"orphan_line_items"`
	SkippedDateOrders          int `json:"skipped_date_orders"`
	SkippedDateRows            int `json:"skipped_date_rows"`
	OrphanProducts             int `json:"orphan_products"`
}

func (d Diagnostics) Dropped() bool {
	return d != Diagnostics{}
}

type Report struct {
	SalesDetail           []models.SalesDetail   `json:"sales_detail"`
	SalesByYear           []models.YearSales     `json:"sales_by_year"`
	SalesByCountry        []models.CountrySales  `json:"sales_by_country"`
	CategoryProductCounts []models.CategoryCount `json:"category_product_counts"`
	ProductStatus         []models.StatusCount   `json:"product_status"`
	Countries             []string               `json:"countries"`
	Years                 []int                  `json:"years"`
	Diagnostics           Diagnostics            `json:"diagnostics"`
}

// DateParseError reports an order date that is not a calendar date.
type DateParseError struct {
	OrderID int
	Value   string
	Err     error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("order %d: unparseable order date %q: %v", e.OrderID, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// UnexpectedEnumValueError reports a value outside a closed enumeration.
type UnexpectedEnumValueError struct {
	Field     string
	ProductID int
	Value     int
}

func (e *UnexpectedEnumValueError) Error() string {
	return fmt.Sprintf("product %d: unexpected %s value %d", e.ProductID, e.Field, e.Value)
}

func Build(tables *models.Tables, opts Options) (*Report, error) {
	detail, diag, err := JoinSalesDetail(tables.Orders, tables.OrderLineItems, tables.Customers, opts.DatePolicy)
	if err != nil {
		return nil, err
	}

	categories, orphans := CategoryProductCounts(tables.Products, tables.Categories)
	diag.OrphanProducts = orphans

	status, err := ProductStatus(tables.Products)
	if err != nil {
		return nil, err
	}

	return &Report{
		SalesDetail:           detail,
		SalesByYear:           SalesByYear(detail),
		SalesByCountry:        SalesByCountry(detail),
		CategoryProductCounts: categories,
		ProductStatus:         status,
		Countries:             AvailableCountries(detail),
		Years:                 AvailableYears(detail),
		Diagnostics:           diag,
	}, nil
}

// ActiveProducts counts products whose discontinued flag is 0.
func ActiveProducts(products []models.Product) int {
	return lo.CountBy(products, func(p models.Product) bool {
		return p.Discontinued == 0
	})
}
