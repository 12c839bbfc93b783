package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Concepts
	mux.HandleFunc("/api/conceptos", s.app.ConceptHandler.ListHandler)
	mux.HandleFunc("/api/conceptos/buscar", s.app.ConceptHandler.SearchHandler)
	mux.HandleFunc("/api/conceptos/batch", s.app.ConceptHandler.BatchHandler)
	mux.HandleFunc("/api/conceptos/cache/refresh", s.app.ConceptHandler.CacheRefreshHandler)
	mux.HandleFunc("/api/conceptos/cache/stats", s.app.ConceptHandler.CacheStatsHandler)
	mux.HandleFunc("/api/conceptos/rango/", s.app.ConceptHandler.RangeHandler)
	mux.HandleFunc("/api/conceptos/debug/", s.app.ConceptHandler.DebugHandler)
	mux.HandleFunc("/api/conceptos/", s.handleConceptRoutes) // {code} and subpaths

	// API routes - Payroll amounts
	mux.HandleFunc("/api/liquidacion", s.app.PayrollHandler.AggregateHandler)
	mux.HandleFunc("/api/liquidacion/tipos", s.app.PayrollHandler.TypesHandler)
	mux.HandleFunc("/api/liquidacion/legajos", s.app.PayrollHandler.EmployeesHandler)
	mux.HandleFunc("/api/liquidacion/anios", s.app.PayrollHandler.YearsHandler)
	mux.HandleFunc("/api/liquidacion/concepto/", s.app.PayrollHandler.ByConceptHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleConceptRoutes dispatches /api/conceptos/{code} and its subpaths
func (s *Server) handleConceptRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/conceptos/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.app.ConceptHandler.DetailHandler(w, r)
	case len(parts) == 2 && parts[1] == "dependencias":
		s.app.ConceptHandler.DependenciesHandler(w, r)
	case len(parts) == 2 && parts[1] == "dependientes":
		s.app.ConceptHandler.DependentsHandler(w, r)
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}
