package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
	"github.com/upcn/formu/internal/parser"
	"github.com/upcn/formu/internal/services/concepts"
	"github.com/upcn/formu/internal/services/index"
)

type fakeCorpus struct {
	concepts []models.Concept
}

func (f *fakeCorpus) All(ctx context.Context) ([]models.Concept, error) {
	return f.concepts, nil
}

func (f *fakeCorpus) ByCode(ctx context.Context, code string) ([]models.Concept, error) {
	var result []models.Concept
	for _, c := range f.concepts {
		if c.Code == code {
			result = append(result, c)
		}
	}
	if len(result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return result, nil
}

func (f *fakeCorpus) ByCodeRange(ctx context.Context, start, end string) ([]models.Concept, error) {
	var result []models.Concept
	for _, c := range f.concepts {
		if c.Code >= start && c.Code <= end {
			result = append(result, c)
		}
	}
	return result, nil
}

func newTestConceptHandler(t *testing.T) *ConceptHandler {
	t.Helper()

	corpus := &fakeCorpus{concepts: []models.Concept{
		{Code: "0100", FormulaCode: "F1", Description: "Sueldo básico", Formula: "%CATEGORIA%*30", Classification: models.ClassificationDefinitive},
		{Code: "0200", FormulaCode: "F1", Description: "Antigüedad", Formula: "%CALC0100%*0.02", Classification: models.ClassificationTransitory},
	}}
	p := parser.New(parser.NewRegistry())
	idx := index.NewService(corpus, p, arbor.NewLogger(), 60)
	require.NoError(t, idx.Build(context.Background()))
	return NewConceptHandler(concepts.NewService(corpus, p, idx, arbor.NewLogger()))
}

func TestConceptHandler_List(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos", nil)
	rec := httptest.NewRecorder()
	h.ListHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var dtos []models.ConceptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, "0100", dtos[0].Code)
}

func TestConceptHandler_List_MethodNotAllowed(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("POST", "/api/conceptos", nil)
	rec := httptest.NewRecorder()
	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConceptHandler_Search(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/buscar?q=sueldo", nil)
	rec := httptest.NewRecorder()
	h.SearchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []models.ConceptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "0100", dtos[0].Code)

	// Under-minimum query: 200 with an empty array, not an error
	req = httptest.NewRequest("GET", "/api/conceptos/buscar?q=s", nil)
	rec = httptest.NewRecorder()
	h.SearchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestConceptHandler_Detail(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/0200", nil)
	rec := httptest.NewRecorder()
	h.DetailHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dto models.ConceptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "0200", dto.Code)
	assert.Equal(t, []string{"0100"}, dto.Dependencies)
	require.Len(t, dto.Variables, 1)
	assert.Equal(t, "CALC0100", dto.Variables[0].Name)
}

func TestConceptHandler_Detail_NotFound(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/9999", nil)
	rec := httptest.NewRecorder()
	h.DetailHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestConceptHandler_Batch(t *testing.T) {
	h := newTestConceptHandler(t)

	body := strings.NewReader(`["0100", "9999", "0200"]`)
	req := httptest.NewRequest("POST", "/api/conceptos/batch", body)
	rec := httptest.NewRecorder()
	h.BatchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []models.ConceptDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	assert.Len(t, dtos, 2)
}

func TestConceptHandler_Batch_InvalidBody(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("POST", "/api/conceptos/batch", strings.NewReader(`{"not": "an array"}`))
	rec := httptest.NewRecorder()
	h.BatchHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConceptHandler_Range(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/rango/0100/0200?tipoRango=SC", nil)
	rec := httptest.NewRecorder()
	h.RangeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listing models.ConceptRangeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "SC01000200", listing.ID)
	require.Len(t, listing.Concepts, 1)
	assert.Equal(t, "0100", listing.Concepts[0].Code)
}

func TestConceptHandler_Range_BadBounds(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/rango/01AB/0200?tipoRango=SC", nil)
	rec := httptest.NewRecorder()
	h.RangeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConceptHandler_Dependencies(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/0200/dependencias", nil)
	rec := httptest.NewRecorder()
	h.DependenciesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["0100"]`, rec.Body.String())

	req = httptest.NewRequest("GET", "/api/conceptos/9999/dependencias", nil)
	rec = httptest.NewRecorder()
	h.DependenciesHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConceptHandler_Dependents(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/0100/dependientes", nil)
	rec := httptest.NewRecorder()
	h.DependentsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["0200"]`, rec.Body.String())

	// Unknown code: empty list, never 404
	req = httptest.NewRequest("GET", "/api/conceptos/9999/dependientes", nil)
	rec = httptest.NewRecorder()
	h.DependentsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestConceptHandler_CacheEndpoints(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/cache/stats", nil)
	rec := httptest.NewRecorder()
	h.CacheStatsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.IndexStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.True(t, stats.Ready)

	req = httptest.NewRequest("POST", "/api/conceptos/cache/refresh", nil)
	rec = httptest.NewRecorder()
	h.CacheRefreshHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.True(t, stats.Ready)

	// Refresh is POST-only
	req = httptest.NewRequest("GET", "/api/conceptos/cache/refresh", nil)
	rec = httptest.NewRecorder()
	h.CacheRefreshHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConceptHandler_Debug(t *testing.T) {
	h := newTestConceptHandler(t)

	req := httptest.NewRequest("GET", "/api/conceptos/debug/0100", nil)
	rec := httptest.NewRecorder()
	h.DebugHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info interfaces.DebugInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "0100", info.Code)
	assert.Equal(t, []string{"0200"}, info.DirectDependents)
}
