package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/services/payroll"
)

// PayrollHandler serves the /api/liquidacion endpoints.
type PayrollHandler struct {
	service *payroll.Service
	logger  arbor.ILogger
}

// NewPayrollHandler creates a new PayrollHandler instance.
func NewPayrollHandler(service *payroll.Service) *PayrollHandler {
	return &PayrollHandler{
		service: service,
		logger:  common.GetLogger(),
	}
}

// AggregateHandler returns concept code → summed amounts for a period.
// Missing anio/mes default to the current date, missing tipo to the
// configured default.
// GET /api/liquidacion?anio=&mes=&tipo=&legajo=
func (h *PayrollHandler) AggregateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	totals, err := h.service.AggregateByPeriod(r.Context(),
		IntQuery(r, "anio"), IntQuery(r, "mes"),
		r.URL.Query().Get("tipo"), r.URL.Query().Get("legajo"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Payroll aggregation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load payroll amounts")
		return
	}
	WriteJSON(w, http.StatusOK, totals)
}

// ByConceptHandler returns the aggregated amounts for one concept, 404
// when the concept has no lines in the period.
// GET /api/liquidacion/concepto/{code}?anio=&mes=&tipo=&legajo=
func (h *PayrollHandler) ByConceptHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/liquidacion/concepto/")
	total, err := h.service.ByConcept(r.Context(),
		IntQuery(r, "anio"), IntQuery(r, "mes"),
		r.URL.Query().Get("tipo"), code, r.URL.Query().Get("legajo"))
	if errors.Is(err, interfaces.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("code", code).Msg("Payroll lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load payroll amount")
		return
	}
	WriteJSON(w, http.StatusOK, total)
}

// TypesHandler returns liquidation type code → label.
// GET /api/liquidacion/tipos
func (h *PayrollHandler) TypesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.service.LiquidationTypes(r.Context()))
}

// EmployeesHandler returns the employee ids with lines in a period.
// GET /api/liquidacion/legajos?anio=&mes=
func (h *PayrollHandler) EmployeesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ids, err := h.service.Employees(r.Context(), IntQuery(r, "anio"), IntQuery(r, "mes"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load employees")
		WriteError(w, http.StatusInternalServerError, "Failed to load employees")
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

// YearsHandler returns the selectable liquidation years, newest first.
// GET /api/liquidacion/anios
func (h *PayrollHandler) YearsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.service.Years())
}
