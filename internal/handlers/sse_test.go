package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"northwind-dashboard/internal/models"
	"northwind-dashboard/internal/report"
	"northwind-dashboard/internal/services"
)

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := testLogger()

	handlers := NewSSEHandlers(analytics, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_renderDetailTable(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	html, err := handlers.renderDetailTable([]models.CountryYearSales{
		{Country: "France", Year: 2012, TotalSales: decimal.RequireFromString("25")},
		{Country: "Germany", Year: 2013, TotalSales: decimal.RequireFromString("89.97")},
	})
	if err != nil {
		t.Fatalf("renderDetailTable() failed: %v", err)
	}

	expectedContent := []string{
		`<div id="detail-content">`,
		`<table class="modern-table">`,
		"<th>Country</th>",
		"<th>Year</th>",
		"<th>Total sales</th>",
		"France",
		"2012",
		"$25.00",
		"Germany",
		"$89.97",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_renderDetailTable_Empty(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	html, err := handlers.renderDetailTable(nil)
	if err != nil {
		t.Fatalf("renderDetailTable() failed: %v", err)
	}
	if strings.Contains(html, "<table") {
		t.Error("empty selection should not render a table")
	}
	if !strings.Contains(html, "No sales match") {
		t.Error("expected empty message")
	}
}

func TestSSEHandlers_renderDetailTable_NoNoteWhenComplete(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	html, err := handlers.renderDetailTable([]models.CountryYearSales{{Country: "France", Year: 2012}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "Showing") {
		t.Error("complete table should not carry a truncation note")
	}
}

func TestSSEHandlers_renderDetailTable_Truncates(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	rows := make([]models.CountryYearSales, maxTableRows+50)
	for i := range rows {
		rows[i] = models.CountryYearSales{Country: "C", Year: 2000 + i}
	}

	html, err := handlers.renderDetailTable(rows)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(html, "<tr>") - 1; got != maxTableRows {
		t.Errorf("rendered %d body rows, want %d", got, maxTableRows)
	}
	if !strings.Contains(html, "Showing 200 of 250 rows") {
		t.Error("truncated table should say how many rows are shown")
	}
}

func TestChartSignals(t *testing.T) {
	d := &services.Dashboard{
		CategoryProductCounts: []models.CategoryCount{{Category: "Beverages", Count: 12}},
		ProductStatus:         []models.StatusCount{{Status: report.StatusActive, Count: 69}},
		Projection: &report.Projection{
			SalesByYear:    []models.YearSales{{Year: 2012, TotalSales: decimal.RequireFromString("10.5")}},
			SalesByCountry: []models.CountrySales{{Country: "USA", TotalSales: decimal.NewFromInt(3)}},
		},
	}

	signals := chartSignals(d)

	years := signals["yearData"].([]chartPoint)
	if len(years) != 1 || years[0].Label != "2012" || years[0].Value != 10.5 {
		t.Errorf("unexpected yearData %+v", years)
	}
	countries := signals["countryData"].([]chartPoint)
	if len(countries) != 1 || countries[0].Label != "USA" || countries[0].Value != 3 {
		t.Errorf("unexpected countryData %+v", countries)
	}
	categories := signals["categoryData"].([]chartPoint)
	if len(categories) != 1 || categories[0].Value != 12 {
		t.Errorf("unexpected categoryData %+v", categories)
	}
	status := signals["statusData"].([]chartPoint)
	if len(status) != 1 || status[0].Label != "Active" {
		t.Errorf("unexpected statusData %+v", status)
	}
}

func sseRequest(t *testing.T, h *SSEHandlers, signals string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/sse/dashboard"
	if signals != "" {
		target += "?datastar=" + url.QueryEscape(signals)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.HandleDashboard(w, req)
	return w
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	w := sseRequest(t, handlers, `{"countries":["France"],"years":["2012","2013"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"datastar-patch-elements",
		"datastar-patch-signals",
		`id="summary"`,
		`id="diagnostics"`,
		`id="detail-content"`,
		"$25.00",
		"yearData",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected SSE body to contain %q", want)
		}
	}
	if strings.Contains(body, "$89.97") {
		t.Error("Germany should be filtered out of the detail table")
	}
}

func TestSSEHandlers_HandleDashboard_NoSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	w := sseRequest(t, handlers, `{}`)

	body := w.Body.String()
	if !strings.Contains(body, "$25.00") || !strings.Contains(body, "$89.97") {
		t.Error("absent signals should select every country and year")
	}
}

func TestSSEHandlers_HandleDashboard_EmptySelection(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	w := sseRequest(t, handlers, `{"countries":[],"years":["2012"]}`)

	body := w.Body.String()
	if !strings.Contains(body, "No sales match") {
		t.Error("empty country selection should render the empty message")
	}
}

func TestSSEHandlers_HandleDashboard_BadSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	tests := []struct {
		name    string
		signals string
	}{
		{"malformed json", `{"countries":`},
		{"non numeric year", `{"years":["soon"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sseRequest(t, handlers, tt.signals)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestSSEHandlers_HandleDashboard_NotLoaded(t *testing.T) {
	handlers := NewSSEHandlers(services.NewAnalytics(report.Options{}, testLogger()), testLogger())

	w := sseRequest(t, handlers, `{}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
