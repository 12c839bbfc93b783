package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/models"
	"github.com/upcn/formu/internal/services/payroll"
)

type fakePayrollStore struct {
	lines []models.PayrollLine
	types []string
}

func (f *fakePayrollStore) LinesByPeriod(ctx context.Context, year, month int, liquidationType, employeeID string) ([]models.PayrollLine, error) {
	var result []models.PayrollLine
	for _, line := range f.lines {
		if line.Year != year || line.Month != month {
			continue
		}
		if liquidationType != "" && line.LiquidationType != liquidationType {
			continue
		}
		if employeeID != "" && line.EmployeeID != employeeID {
			continue
		}
		result = append(result, line)
	}
	return result, nil
}

func (f *fakePayrollStore) LiquidationTypes(ctx context.Context) ([]string, error) {
	return f.types, nil
}

func (f *fakePayrollStore) EmployeeIDs(ctx context.Context, year, month int) ([]string, error) {
	return []string{"E001", "E002"}, nil
}

func newTestPayrollHandler() *PayrollHandler {
	cal := 1500.0
	store := &fakePayrollStore{
		lines: []models.PayrollLine{
			{Year: 2025, Month: 7, LiquidationType: "1", EmployeeID: "E001", ConceptCode: "0100", Calculated: &cal},
		},
		types: []string{"1", "9"},
	}
	config := &common.PayrollConfig{
		DefaultType: "0",
		TypeNames:   map[string]string{"1": "Normal"},
	}
	return NewPayrollHandler(payroll.NewService(store, config, arbor.NewLogger()))
}

func TestPayrollHandler_Aggregate(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion?anio=2025&mes=7&tipo=1", nil)
	rec := httptest.NewRecorder()
	h.AggregateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var totals map[string]models.ConceptTotal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, 1500.0, totals["0100"].Calculated)
	assert.Equal(t, 1, totals["0100"].LineCount)
}

func TestPayrollHandler_Aggregate_EmptyPeriod(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion?anio=2024&mes=1&tipo=1", nil)
	rec := httptest.NewRecorder()
	h.AggregateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())
}

func TestPayrollHandler_ByConcept(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion/concepto/0100?anio=2025&mes=7&tipo=1", nil)
	rec := httptest.NewRecorder()
	h.ByConceptHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var total models.ConceptTotal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &total))
	assert.Equal(t, "0100", total.ConceptCode)

	req = httptest.NewRequest("GET", "/api/liquidacion/concepto/0999?anio=2025&mes=7&tipo=1", nil)
	rec = httptest.NewRecorder()
	h.ByConceptHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollHandler_Types(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion/tipos", nil)
	rec := httptest.NewRecorder()
	h.TypesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"1": "Normal", "9": "Tipo 9"}`, rec.Body.String())
}

func TestPayrollHandler_Employees(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion/legajos?anio=2025&mes=7", nil)
	rec := httptest.NewRecorder()
	h.EmployeesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["E001", "E002"]`, rec.Body.String())
}

func TestPayrollHandler_Years(t *testing.T) {
	h := newTestPayrollHandler()

	req := httptest.NewRequest("GET", "/api/liquidacion/anios", nil)
	rec := httptest.NewRecorder()
	h.YearsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var years []int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &years))
	require.Len(t, years, 5)
	assert.Equal(t, years[0], years[1]+1)
}
