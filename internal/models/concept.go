package models

import "strings"

// Classification splits concepts into definitive and transitory groups.
// It drives the SC vs ST range filter.
type Classification string

const (
	ClassificationDefinitive Classification = "DEFINITIVE"
	ClassificationTransitory Classification = "TRANSITORY"
)

// ClassificationFromLetter maps the single-letter TransitorioDefinitivo
// column ("D" = definitive, anything else transitory).
func ClassificationFromLetter(letter string) Classification {
	if strings.EqualFold(letter, "D") {
		return ClassificationDefinitive
	}
	return ClassificationTransitory
}

// Concept is one grouped row of the ConceptoTipoLiqFormula view: a payroll
// concept together with one of its formulas. Read-only; the corpus never
// mutates.
type Concept struct {
	Code               string
	FormulaCode        string
	Description        string
	FormulaDescription string
	Condition          string
	Formula            string // full formula text with embedded %TOKEN% variables
	ConceptType        string
	LiquidationTypes   string // "-"-joined types the concept participates in
	Order              int
	Classification     Classification
	Val1               *float64
	Val2               *float64
	Val3               *float64
}

// IsDefinitive reports whether the concept is classified definitive.
func (c *Concept) IsDefinitive() bool {
	return c.Classification == ClassificationDefinitive
}

// ConceptDTO is the JSON payload for a concept. Field names follow the
// front-end contract inherited from the payroll system.
type ConceptDTO struct {
	Code               string           `json:"codigo"`
	Description        string           `json:"descripcion"`
	FormulaCode        string           `json:"formula"`
	Formula            string           `json:"formulaCompleta"`
	Condition          string           `json:"condicionFormula,omitempty"`
	ConceptType        string           `json:"tipoConcepto,omitempty"`
	LiquidationTypes   string           `json:"tiposLiquidacion,omitempty"`
	Order              int              `json:"orden"`
	Definitive         bool             `json:"definitivo"`
	Variables          []ParsedVariable `json:"variables,omitempty"`
	ConditionVariables []ParsedVariable `json:"variablesCondicion,omitempty"`
	Dependencies       []string         `json:"dependencias,omitempty"`
	Dependents         []string         `json:"dependientes,omitempty"`
	Val1               *float64         `json:"val1,omitempty"`
	Val2               *float64         `json:"val2,omitempty"`
	Val3               *float64         `json:"val3,omitempty"`
	Color              string           `json:"color"`
	BorderColor        string           `json:"borderColor,omitempty"`
}

// ConceptRangeDTO is the payload for a range listing (SC/ST/... variables
// that reference a block of concepts).
type ConceptRangeDTO struct {
	ID          string           `json:"id"`   // e.g. "SC01003600"
	Type        string           `json:"tipo"` // e.g. "SC"
	StartCode   string           `json:"codigoInicio"`
	EndCode     string           `json:"codigoFin"`
	Description string           `json:"descripcion"`
	Concepts    []RangeMemberDTO `json:"conceptos"`
	Color       string           `json:"color"`
}

// RangeMemberDTO is one concept inside a range listing.
type RangeMemberDTO struct {
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Definitive  bool   `json:"definitivo"`
	Color       string `json:"color"`
}
