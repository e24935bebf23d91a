package handlers

import (
	"log/slog"
	"net/http"
	"time"

	apperrors "northwind-dashboard/internal/errors"
	"northwind-dashboard/internal/observability"
	"northwind-dashboard/internal/services"
)

const cacheControl = "private, max-age=60"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) dashboard(w http.ResponseWriter, r *http.Request) (*services.Dashboard, bool) {
	requestID := observability.GetRequestID(r.Context())

	q := r.URL.Query()
	d, err := h.analytics.Dashboard(r.Context(), queryValues(q, "country"), queryValues(q, "year"))
	if err != nil {
		apperrors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}
	return d, true
}

func (h *APIHandlers) write(w http.ResponseWriter, data any) {
	apperrors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.dashboard(w, r); ok {
		h.write(w, d)
	}
}

func (h *APIHandlers) HandleSalesByYear(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.dashboard(w, r); ok {
		h.write(w, d.Projection.SalesByYear)
	}
}

func (h *APIHandlers) HandleSalesByCountry(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.dashboard(w, r); ok {
		h.write(w, d.Projection.SalesByCountry)
	}
}

func (h *APIHandlers) HandleSalesDetail(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.dashboard(w, r); ok {
		h.write(w, d.Projection.SalesDetail)
	}
}

func (h *APIHandlers) HandleCountryYear(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.dashboard(w, r); ok {
		h.write(w, d.Projection.CountryYear)
	}
}

func (h *APIHandlers) HandleCategoryCounts(w http.ResponseWriter, r *http.Request) {
	rep, err := h.analytics.Report(r.Context())
	if err != nil {
		apperrors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	h.write(w, rep.CategoryProductCounts)
}

func (h *APIHandlers) HandleProductStatus(w http.ResponseWriter, r *http.Request) {
	rep, err := h.analytics.Report(r.Context())
	if err != nil {
		apperrors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	h.write(w, rep.ProductStatus)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.analytics.Filters(r.Context())
	if err != nil {
		apperrors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	h.write(w, filters)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.analytics.Loaded() {
		status = "loading"
	}

	apperrors.WriteSuccess(w, map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.analytics.Stats())
}
