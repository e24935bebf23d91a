package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/starfederation/datastar-go/datastar"

	apperrors "northwind-dashboard/internal/errors"
	"northwind-dashboard/internal/models"
	"northwind-dashboard/internal/observability"
	"northwind-dashboard/internal/services"
)

const maxTableRows = 200

var summaryTemplate = template.Must(template.New("summary").Parse(`
<div id="summary" class="metrics">
<div class="metric"><span class="label">Total categories</span><strong>{{.TotalCategories}}</strong><small>Product variety</small></div>
<div class="metric"><span class="label">Total products</span><strong>{{.TotalProducts}}</strong><small>{{.ActiveProducts}} active</small></div>
<div class="metric"><span class="label">Selected countries</span><strong>{{.SelectedCountries}}</strong><small>Geographic reach</small></div>
<div class="metric"><span class="label">Selected sales</span><strong>${{.TotalSales.StringFixed 2}}</strong><small>Quantity × unit price</small></div>
</div>`))

var detailTableTemplate = template.Must(template.New("detailTable").Parse(`
<div id="detail-content">
{{if .Rows}}<table class="modern-table">
<thead><tr><th>Country</th><th>Year</th><th>Total sales</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Country}}</td>
<td>{{.Year}}</td>
<td><strong>${{.TotalSales.StringFixed 2}}</strong></td>
</tr>{{end}}
</tbody>
</table>
{{if lt (len .Rows) .Total}}<p class="note">Showing {{len .Rows}} of {{.Total}} rows. Narrow the filters to see the rest.</p>{{end}}
{{else}}<p class="empty">No sales match the selected countries and years.</p>{{end}}
</div>`))

var diagnosticsTemplate = template.Must(template.New("diagnostics").Parse(`
<div id="diagnostics">{{if .Dropped}}<p class="warning">
{{.UnmatchedCustomerLineItems}} line items without a matching customer,
{{.OrphanLineItems}} line items without a matching order,
{{.SkippedDateRows}} line items with an invalid order date and
{{.OrphanProducts}} products without a matching category were excluded.
</p>{{end}}</div>`))

// filterSignals are the filter widgets' datastar signals. A nil field means
// the client did not send that signal.
type filterSignals struct {
	Countries *[]string `json:"countries"`
	Years     *[]string `json:"years"`
}

type chartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type detailTableData struct {
	Rows  []models.CountryYearSales
	Total int
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}

// renderDetailTable renders at most maxTableRows rows and notes how many
// were left out.
func (h *SSEHandlers) renderDetailTable(rows []models.CountryYearSales) (string, error) {
	data := detailTableData{Rows: rows, Total: len(rows)}
	if len(rows) > maxTableRows {
		data.Rows = rows[:maxTableRows]
	}
	return render(detailTableTemplate, data)
}

func chartSignals(d *services.Dashboard) map[string]any {
	return map[string]any{
		"yearData": lo.Map(d.Projection.SalesByYear, func(y models.YearSales, _ int) chartPoint {
			return chartPoint{Label: strconv.Itoa(y.Year), Value: y.TotalSales.InexactFloat64()}
		}),
		"countryData": lo.Map(d.Projection.SalesByCountry, func(c models.CountrySales, _ int) chartPoint {
			return chartPoint{Label: c.Country, Value: c.TotalSales.InexactFloat64()}
		}),
		"categoryData": lo.Map(d.CategoryProductCounts, func(c models.CategoryCount, _ int) chartPoint {
			return chartPoint{Label: c.Category, Value: float64(c.Count)}
		}),
		"statusData": lo.Map(d.ProductStatus, func(s models.StatusCount, _ int) chartPoint {
			return chartPoint{Label: s.Status, Value: float64(s.Count)}
		}),
	}
}

// HandleDashboard recomputes every view for the filter signals the page sent
// and patches the fragments and chart signals back.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		apperrors.WriteError(w, h.logger, apperrors.BadRequestWrap(err, "invalid filter signals"), requestID)
		return
	}

	d, err := h.analytics.Dashboard(r.Context(), signalValues(signals.Countries), signalValues(signals.Years))
	if err != nil {
		apperrors.WriteError(w, h.logger, err, requestID)
		return
	}

	fragments := make([]string, 0, 3)
	for _, part := range []struct {
		tmpl *template.Template
		data any
	}{
		{summaryTemplate, d.Summary},
		{diagnosticsTemplate, d.Diagnostics},
	} {
		html, err := render(part.tmpl, part.data)
		if err != nil {
			h.logger.Error("render fragment", "template", part.tmpl.Name(), "error", err, "request_id", requestID)
			return
		}
		fragments = append(fragments, html)
	}

	table, err := h.renderDetailTable(d.Projection.CountryYear)
	if err != nil {
		h.logger.Error("render detail table", "error", err, "request_id", requestID)
		return
	}
	fragments = append(fragments, table)

	chartData, err := json.Marshal(chartSignals(d))
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err, "request_id", requestID)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err, "request_id", requestID)
			return
		}
	}
	if err := sse.PatchSignals(chartData); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
	}
}
