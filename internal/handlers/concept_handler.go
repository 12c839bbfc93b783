package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/services/concepts"
)

// ConceptHandler serves the /api/conceptos endpoints.
type ConceptHandler struct {
	service *concepts.Service
	logger  arbor.ILogger
}

// NewConceptHandler creates a new ConceptHandler instance.
func NewConceptHandler(service *concepts.Service) *ConceptHandler {
	return &ConceptHandler{
		service: service,
		logger:  common.GetLogger(),
	}
}

// ListHandler returns all concept summaries.
// GET /api/conceptos
func (h *ConceptHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	dtos, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list concepts")
		WriteError(w, http.StatusInternalServerError, "Failed to list concepts")
		return
	}
	WriteJSON(w, http.StatusOK, dtos)
}

// SearchHandler searches concepts by code or description. Queries below
// the 2-character minimum return an empty list.
// GET /api/conceptos/buscar?q=<text>
func (h *ConceptHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	dtos, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Concept search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	WriteJSON(w, http.StatusOK, dtos)
}

// DetailHandler returns one concept with parsed variables and both
// dependency directions. Unknown codes get a bare 404.
// GET /api/conceptos/{code}
func (h *ConceptHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/conceptos/")
	dto, err := h.service.Detail(r.Context(), code)
	if errors.Is(err, interfaces.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("code", code).Msg("Failed to load concept detail")
		WriteError(w, http.StatusInternalServerError, "Failed to load concept")
		return
	}
	WriteJSON(w, http.StatusOK, dto)
}

// BatchHandler returns details for a list of codes, skipping unknown ones.
// POST /api/conceptos/batch with body ["0100", "0200", ...]
func (h *ConceptHandler) BatchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var codes []string
	if err := json.NewDecoder(r.Body).Decode(&codes); err != nil {
		WriteError(w, http.StatusBadRequest, "Request body must be a JSON array of concept codes")
		return
	}

	dtos, err := h.service.Batch(r.Context(), codes)
	if err != nil {
		h.logger.Error().Err(err).Msg("Batch detail failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load concepts")
		return
	}
	WriteJSON(w, http.StatusOK, dtos)
}

// RangeHandler expands a range variable into its member concepts.
// GET /api/conceptos/rango/{start}/{end}?tipoRango=<prefix>
func (h *ConceptHandler) RangeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/conceptos/rango/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		WriteError(w, http.StatusBadRequest, "Expected /api/conceptos/rango/{start}/{end}")
		return
	}

	prefix := r.URL.Query().Get("tipoRango")
	listing, err := h.service.RangeListing(r.Context(), prefix, parts[0], parts[1])
	if errors.Is(err, concepts.ErrInvalidRange) {
		WriteError(w, http.StatusBadRequest, "Range bounds must be numeric concept codes")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("range", rest).Msg("Range listing failed")
		WriteError(w, http.StatusInternalServerError, "Failed to expand range")
		return
	}
	WriteJSON(w, http.StatusOK, listing)
}

// DependenciesHandler returns the forward dependencies of one concept.
// GET /api/conceptos/{code}/dependencias
func (h *ConceptHandler) DependenciesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := pathSegment(r.URL.Path, "/api/conceptos/")
	deps, err := h.service.Dependencies(r.Context(), code)
	if errors.Is(err, interfaces.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("code", code).Msg("Failed to load dependencies")
		WriteError(w, http.StatusInternalServerError, "Failed to load dependencies")
		return
	}
	WriteJSON(w, http.StatusOK, deps)
}

// DependentsHandler returns the reverse dependents of a code. Unknown
// codes are not an error; they have no dependents.
// GET /api/conceptos/{code}/dependientes
func (h *ConceptHandler) DependentsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := pathSegment(r.URL.Path, "/api/conceptos/")
	WriteJSON(w, http.StatusOK, h.service.Dependents(code))
}

// CacheRefreshHandler forces an index rebuild and returns the new stats.
// POST /api/conceptos/cache/refresh
func (h *ConceptHandler) CacheRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	stats, err := h.service.RefreshIndex(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Index refresh failed")
		WriteError(w, http.StatusInternalServerError, "Index refresh failed")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// CacheStatsHandler returns the current index stats.
// GET /api/conceptos/cache/stats
func (h *ConceptHandler) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.service.IndexStats())
}

// DebugHandler returns the index diagnostic view for one code.
// GET /api/conceptos/debug/{code}
func (h *ConceptHandler) DebugHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/conceptos/debug/")
	WriteJSON(w, http.StatusOK, h.service.IndexDebug(code))
}

// pathSegment extracts the first path segment after the prefix.
func pathSegment(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
