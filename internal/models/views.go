package models

import "github.com/shopspring/decimal"

// SalesDetail is one order line item joined to its order year and customer country.
type SalesDetail struct {
	OrderID    int             `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Country    string          `json:"country"`
	Year       int             `json:"year"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type YearSales struct {
	Year       int             `json:"year"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type CountrySales struct {
	Country    string          `json:"country"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type CountryYearSales struct {
	Country    string          `json:"country"`
	Year       int             `json:"year"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
