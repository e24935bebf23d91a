package server

import (
	"log/slog"
	"net/http"

	"northwind-dashboard/internal/handlers"
	"northwind-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints, filtered by ?country= and ?year=
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/sales-by-year", s.apiHandlers.HandleSalesByYear)
	s.mux.HandleFunc("GET /api/sales-by-country", s.apiHandlers.HandleSalesByCountry)
	s.mux.HandleFunc("GET /api/sales-detail", s.apiHandlers.HandleSalesDetail)
	s.mux.HandleFunc("GET /api/country-year", s.apiHandlers.HandleCountryYear)
	s.mux.HandleFunc("GET /api/category-counts", s.apiHandlers.HandleCategoryCounts)
	s.mux.HandleFunc("GET /api/product-status", s.apiHandlers.HandleProductStatus)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)

	// Datastar SSE endpoint
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
