package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
)

// conceptColumns is the projection read off the ConceptoTipoLiqFormula
// view. One source row per (concept, formula, liquidation type); grouping
// into one Concept per (concept, formula) happens in Go so the query stays
// dialect-neutral.
const conceptColumns = `
	SELECT
		CodConcepto,
		CodFormula,
		DescripcionConcepto,
		DescripcionFormula,
		CondicionFormula,
		TransitorioDefinitivo,
		TipoLiquidacion,
		TipoConcepto,
		Orden,
		FormulaCompleta
	FROM ConceptoTipoLiqFormula`

// ConceptStorage implements the ConceptCorpus interface over the
// ConceptoTipoLiqFormula view.
type ConceptStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewConceptStorage creates a new ConceptStorage instance.
func NewConceptStorage(db *DB, logger arbor.ILogger) interfaces.ConceptCorpus {
	return &ConceptStorage{db: db, logger: logger}
}

// All returns every concept ordered by code then formula code.
func (s *ConceptStorage) All(ctx context.Context) ([]models.Concept, error) {
	query := conceptColumns + `
	ORDER BY CodConcepto, CodFormula, TipoLiquidacion`

	concepts, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	return concepts, nil
}

// ByCode returns the concepts sharing one code, or ErrNotFound.
func (s *ConceptStorage) ByCode(ctx context.Context, code string) ([]models.Concept, error) {
	query := conceptColumns + `
	WHERE CodConcepto = ?
	ORDER BY CodConcepto, CodFormula, TipoLiquidacion`

	concepts, err := s.query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load concept %s: %w", code, err)
	}
	if len(concepts) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return concepts, nil
}

// ByCodeRange returns the concepts whose code falls in [start, end],
// inclusive. Codes are zero-padded strings, so lexicographic BETWEEN
// matches numeric order.
func (s *ConceptStorage) ByCodeRange(ctx context.Context, start, end string) ([]models.Concept, error) {
	query := conceptColumns + `
	WHERE CodConcepto BETWEEN ? AND ?
	ORDER BY CodConcepto, CodFormula, TipoLiquidacion`

	concepts, err := s.query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load concept range %s-%s: %w", start, end, err)
	}
	return concepts, nil
}

func (s *ConceptStorage) query(ctx context.Context, query string, args ...any) ([]models.Concept, error) {
	rows, err := s.db.db.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var concepts []models.Concept
	for rows.Next() {
		var (
			code, formulaCode                     string
			description, formulaDescription       sql.NullString
			condition, classification             sql.NullString
			liquidationType, conceptType, formula sql.NullString
			order                                 sql.NullInt64
		)

		err := rows.Scan(&code, &formulaCode, &description, &formulaDescription,
			&condition, &classification, &liquidationType, &conceptType, &order, &formula)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		last := len(concepts) - 1
		if last >= 0 && concepts[last].Code == code && concepts[last].FormulaCode == formulaCode {
			// Same concept/formula pair, another liquidation type
			if liquidationType.String != "" {
				if concepts[last].LiquidationTypes != "" {
					concepts[last].LiquidationTypes += "-"
				}
				concepts[last].LiquidationTypes += liquidationType.String
			}
			continue
		}

		concepts = append(concepts, models.Concept{
			Code:               code,
			FormulaCode:        formulaCode,
			Description:        description.String,
			FormulaDescription: formulaDescription.String,
			Condition:          condition.String,
			Formula:            formula.String,
			ConceptType:        conceptType.String,
			LiquidationTypes:   liquidationType.String,
			Order:              int(order.Int64),
			Classification:     models.ClassificationFromLetter(classification.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return concepts, nil
}
