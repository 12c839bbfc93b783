package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
)

// Service aggregates settled payroll lines so the front-end can show real
// amounts next to each concept. Read-only over the LIQUID1 table.
type Service struct {
	store  interfaces.PayrollStore
	config *common.PayrollConfig
	logger arbor.ILogger
	now    func() time.Time
}

// NewService creates a payroll service.
func NewService(store interfaces.PayrollStore, config *common.PayrollConfig, logger arbor.ILogger) *Service {
	return &Service{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// AggregateByPeriod returns concept code → summed amounts for a period.
// Zero year/month default to the current date; an empty liquidation type
// defaults to the configured one. Without an employee filter the amounts
// sum across all employees; with one, each concept maps to that
// employee's single line.
func (s *Service) AggregateByPeriod(ctx context.Context, year, month int, liquidationType, employeeID string) (map[string]models.ConceptTotal, error) {
	year, month = s.defaultPeriod(year, month)
	if liquidationType == "" {
		liquidationType = s.config.DefaultType
	}

	s.logger.Debug().
		Int("year", year).
		Int("month", month).
		Str("type", liquidationType).
		Str("employee", employeeID).
		Msg("Aggregating payroll lines")

	lines, err := s.store.LinesByPeriod(ctx, year, month, liquidationType, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payroll lines: %w", err)
	}

	totals := make(map[string]models.ConceptTotal)
	for _, line := range lines {
		total := totals[line.ConceptCode]
		total.ConceptCode = line.ConceptCode
		if line.Calculated != nil {
			total.Calculated += *line.Calculated
		}
		if line.Reported != nil {
			total.Reported += *line.Reported
		}
		total.LineCount++
		if employeeID != "" {
			total.EmployeeID = employeeID
		}
		totals[line.ConceptCode] = total
	}
	return totals, nil
}

// ByConcept returns the aggregated amounts for one concept, or
// interfaces.ErrNotFound when it has no lines in the period.
func (s *Service) ByConcept(ctx context.Context, year, month int, liquidationType, conceptCode, employeeID string) (*models.ConceptTotal, error) {
	totals, err := s.AggregateByPeriod(ctx, year, month, liquidationType, employeeID)
	if err != nil {
		return nil, err
	}
	total, ok := totals[conceptCode]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &total, nil
}

// LiquidationTypes returns code → display label for every type observed in
// the data, labelled from config with a "Tipo <code>" fallback. When the
// database is unavailable the configured map alone is returned.
func (s *Service) LiquidationTypes(ctx context.Context) map[string]string {
	result := make(map[string]string)

	types, err := s.store.LiquidationTypes(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load liquidation types, using configured labels")
		for code, label := range s.config.TypeNames {
			result[code] = label
		}
		return result
	}

	for _, code := range types {
		label, ok := s.config.TypeNames[code]
		if !ok {
			label = "Tipo " + code
		}
		result[code] = label
	}
	return result
}

// Employees returns the employee ids with lines in a period.
func (s *Service) Employees(ctx context.Context, year, month int) ([]string, error) {
	year, month = s.defaultPeriod(year, month)
	ids, err := s.store.EmployeeIDs(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return ids, nil
}

// Years returns the last five years, newest first.
func (s *Service) Years() []int {
	current := s.now().Year()
	years := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		years = append(years, current-i)
	}
	return years
}

func (s *Service) defaultPeriod(year, month int) (int, int) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}
