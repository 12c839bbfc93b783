package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
)

// PayrollStorage implements the PayrollStore interface over the LIQUID1
// settled-lines table.
type PayrollStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewPayrollStorage creates a new PayrollStorage instance.
func NewPayrollStorage(db *DB, logger arbor.ILogger) interfaces.PayrollStore {
	return &PayrollStorage{db: db, logger: logger}
}

// LinesByPeriod returns the payroll lines for a year/month. Empty
// liquidationType or employeeID means no filter on that column.
func (s *PayrollStorage) LinesByPeriod(ctx context.Context, year, month int, liquidationType, employeeID string) ([]models.PayrollLine, error) {
	query := `
	SELECT LiqAno, LiqMes, LiqTpoLiq, LiqLeg, Liq1Cnc, Liq1Cal, Liq1Inf
	FROM LIQUID1
	WHERE LiqAno = ? AND LiqMes = ?`
	args := []any{year, month}

	if liquidationType != "" {
		query += ` AND LiqTpoLiq = ?`
		args = append(args, liquidationType)
	}
	if employeeID != "" {
		query += ` AND LiqLeg = ?`
		args = append(args, employeeID)
	}
	query += `
	ORDER BY Liq1Cnc, LiqLeg`

	rows, err := s.db.db.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []models.PayrollLine
	for rows.Next() {
		var (
			line models.PayrollLine
			typ  sql.NullString
			leg  sql.NullString
			cal  sql.NullFloat64
			inf  sql.NullFloat64
		)
		if err := rows.Scan(&line.Year, &line.Month, &typ, &leg, &line.ConceptCode, &cal, &inf); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		line.LiquidationType = typ.String
		line.EmployeeID = leg.String
		if cal.Valid {
			v := cal.Float64
			line.Calculated = &v
		}
		if inf.Valid {
			v := inf.Float64
			line.Reported = &v
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return lines, nil
}

// LiquidationTypes returns the distinct type codes present in the table.
func (s *PayrollStorage) LiquidationTypes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT LiqTpoLiq FROM LIQUID1 ORDER BY LiqTpoLiq`

	rows, err := s.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load liquidation types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var typ sql.NullString
		if err := rows.Scan(&typ); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if typ.String != "" {
			types = append(types, typ.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return types, nil
}

// EmployeeIDs returns the distinct employee ids for a period.
func (s *PayrollStorage) EmployeeIDs(ctx context.Context, year, month int) ([]string, error) {
	query := `SELECT DISTINCT LiqLeg FROM LIQUID1 WHERE LiqAno = ? AND LiqMes = ? ORDER BY LiqLeg`

	rows, err := s.db.db.QueryContext(ctx, s.db.rebind(query), year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if id.String != "" {
			ids = append(ids, id.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}
