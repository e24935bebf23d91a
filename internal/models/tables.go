package models

import "github.com/shopspring/decimal"

// Base tables as stored in the Northwind source. Column and relation names
// are a fixed contract with the database; only the columns the reports read
// are mapped.

type Category struct {
	ID   int    `gorm:"column:Id;primaryKey"`
	Name string `gorm:"column:CategoryName"`
}

func (Category) TableName() string { return "Category" }

type Order struct {
	ID         int    `gorm:"column:Id;primaryKey"`
	OrderDate  string `gorm:"column:OrderDate"`
	CustomerID string `gorm:"column:CustomerId"`
}

func (Order) TableName() string { return "Order" }

type OrderLineItem struct {
	OrderID   int             `gorm:"column:OrderId"`
	Quantity  int             `gorm:"column:Quantity"`
	UnitPrice decimal.Decimal `gorm:"column:UnitPrice"`
}

func (OrderLineItem) TableName() string { return "OrderDetail" }

type Product struct {
	ID           int `gorm:"column:Id;primaryKey"`
	CategoryID   int `gorm:"column:CategoryId"`
	Discontinued int `gorm:"column:Discontinued"`
}

func (Product) TableName() string { return "Product" }

type Customer struct {
	ID      string `gorm:"column:Id;primaryKey"`
	Country string `gorm:"column:Country"`
}

func (Customer) TableName() string { return "Customer" }

// Tables is one batch load of the five base tables.
type Tables struct {
	Categories     []Category
	Orders         []Order
	OrderLineItems []OrderLineItem
	Products       []Product
	Customers      []Customer
}
