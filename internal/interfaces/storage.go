package interfaces

import (
	"context"
	"errors"

	"github.com/upcn/formu/internal/models"
)

// ErrNotFound is returned by lookups when no row matches. Handlers map it
// to a 404.
var ErrNotFound = errors.New("not found")

// ConceptCorpus - read-only access to the grouped concept/formula rows.
// One Concept per (code, formula code) pair; liquidation types already
// joined with "-".
type ConceptCorpus interface {
	// All returns every concept ordered by code then formula code.
	All(ctx context.Context) ([]models.Concept, error)

	// ByCode returns the concepts sharing one code, or ErrNotFound.
	ByCode(ctx context.Context, code string) ([]models.Concept, error)

	// ByCodeRange returns the concepts whose code falls in [start, end],
	// inclusive, ordered by code.
	ByCodeRange(ctx context.Context, start, end string) ([]models.Concept, error)
}

// PayrollStore - read-only access to settled payroll lines.
type PayrollStore interface {
	// LinesByPeriod returns the lines for a year/month, optionally
	// filtered by liquidation type ("" = all) and employee ("" = all).
	LinesByPeriod(ctx context.Context, year, month int, liquidationType, employeeID string) ([]models.PayrollLine, error)

	// LiquidationTypes returns the distinct type codes present in the data.
	LiquidationTypes(ctx context.Context) ([]string, error)

	// EmployeeIDs returns the distinct employee ids for a period.
	EmployeeIDs(ctx context.Context, year, month int) ([]string, error)
}
