package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "northwind-dashboard/internal/errors"
	"northwind-dashboard/internal/models"
	"northwind-dashboard/internal/observability"
	"northwind-dashboard/internal/report"
)

// Source yields one batch of base tables.
type Source interface {
	Load(ctx context.Context) (*models.Tables, error)
}

type Summary struct {
	TotalCategories   int             `json:"total_categories"`
	TotalProducts     int             `json:"total_products"`
	ActiveProducts    int             `json:"active_products"`
	SelectedCountries int             `json:"selected_countries"`
	TotalSales        decimal.Decimal `json:"total_sales"`
}

type Filters struct {
	Countries []string `json:"countries"`
	Years     []int    `json:"years"`
}

// Dashboard is everything the page renders for one selection.
type Dashboard struct {
	Summary               Summary                `json:"summary"`
	Filters               Filters                `json:"filters"`
	CategoryProductCounts []models.CategoryCount `json:"category_product_counts"`
	ProductStatus         []models.StatusCount   `json:"product_status"`
	Projection            *report.Projection     `json:"projection"`
	Diagnostics           report.Diagnostics     `json:"diagnostics"`
}

// Analytics holds the loaded base tables. The tables are never modified
// after SetTables; every query derives its views from them afresh.
type Analytics struct {
	mu       sync.RWMutex
	tables   *models.Tables
	loadedAt time.Time
	opts     report.Options
	logger   *slog.Logger
}

func NewAnalytics(opts report.Options, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		opts:   opts,
		logger: logger,
	}
}

// Load reads the base tables from src and installs them.
func (a *Analytics) Load(ctx context.Context, src Source) error {
	tables, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load base tables: %w", err)
	}
	return a.SetTables(ctx, tables)
}

// SetTables validates tables by building the full report once, then installs them.
func (a *Analytics) SetTables(ctx context.Context, tables *models.Tables) error {
	_, span := observability.StartSpan(ctx, "report.build")
	span.SetTag("date_policy", a.opts.DatePolicy.String())
	defer span.End(a.logger)

	r, err := report.Build(tables, a.opts)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("build report: %w", err)
	}

	a.logDiagnostics(r.Diagnostics)

	a.mu.Lock()
	a.tables = tables
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.logger.Info("sales report ready",
		"sales_rows", len(r.SalesDetail),
		"countries", len(r.Countries),
		"years", len(r.Years),
	)
	return nil
}

func (a *Analytics) logDiagnostics(d report.Diagnostics) {
	if !d.Dropped() {
		return
	}
	a.logger.Warn("rows excluded from sales report",
		"unmatched_customer_orders", d.UnmatchedCustomerOrders,
		"unmatched_customer_line_items", d.UnmatchedCustomerLineItems,
		"orphan_line_items", d.OrphanLineItems,
		"skipped_date_orders", d.SkippedDateOrders,
		"skipped_date_rows", d.SkippedDateRows,
		"orphan_products", d.OrphanProducts,
	)
}

func (a *Analytics) snapshot() (*models.Tables, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.tables == nil {
		return nil, apperrors.ServiceUnavailable("Sales data has not been loaded")
	}
	return a.tables, nil
}

// Report derives the unfiltered views.
func (a *Analytics) Report(ctx context.Context) (*report.Report, error) {
	tables, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	return report.Build(tables, a.opts)
}

// Filters lists the countries and years present in the sales detail.
func (a *Analytics) Filters(ctx context.Context) (Filters, error) {
	r, err := a.Report(ctx)
	if err != nil {
		return Filters{}, err
	}
	return Filters{Countries: r.Countries, Years: r.Years}, nil
}

// Dashboard derives all views for the requested countries and years,
// resolved by ResolveSelection against the values the report offers.
func (a *Analytics) Dashboard(ctx context.Context, countries, years []string) (*Dashboard, error) {
	tables, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	_, span := observability.StartSpan(ctx, "report.project")
	defer span.End(a.logger)

	r, err := report.Build(tables, a.opts)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	all := report.AllSelection(r)
	filters := Filters{Countries: all.Countries, Years: all.Years}
	selection, err := ResolveSelection(countries, years, filters)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	projection := report.Project(r.SalesDetail, selection)
	span.SetTag("rows", fmt.Sprint(len(projection.SalesDetail)))

	return &Dashboard{
		Summary: Summary{
			TotalCategories:   len(tables.Categories),
			TotalProducts:     len(tables.Products),
			ActiveProducts:    report.ActiveProducts(tables.Products),
			SelectedCountries: len(selection.Countries),
			TotalSales:        projection.TotalSales,
		},
		Filters:               filters,
		CategoryProductCounts: r.CategoryProductCounts,
		ProductStatus:         r.ProductStatus,
		Projection:            projection,
		Diagnostics:           r.Diagnostics,
	}, nil
}

func (a *Analytics) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tables != nil
}

// Stats reports the size of the loaded snapshot for monitoring.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.tables == nil {
		return map[string]any{"loaded": false}
	}
	return map[string]any{
		"loaded":           true,
		"loaded_at":        a.loadedAt,
		"date_policy":      a.opts.DatePolicy.String(),
		"categories":       len(a.tables.Categories),
		"orders":           len(a.tables.Orders),
		"order_line_items": len(a.tables.OrderLineItems),
		"products":         len(a.tables.Products),
		"customers":        len(a.tables.Customers),
	}
}
