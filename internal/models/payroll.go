package models

// PayrollLine is one row of the LIQUID1 table, keyed by
// (year, month, liquidation type, employee, concept). Read-only.
type PayrollLine struct {
	Year            int
	Month           int
	LiquidationType string
	EmployeeID      string
	ConceptCode     string
	Calculated      *float64
	Reported        *float64
}

// ConceptTotal aggregates payroll lines for one concept code. When no
// employee filter is applied, the amounts are summed across all employees
// and LineCount carries how many lines contributed.
type ConceptTotal struct {
	ConceptCode string  `json:"codigoConcepto"`
	Calculated  float64 `json:"importeCalculado"`
	Reported    float64 `json:"valorInformado"`
	EmployeeID  string  `json:"legajo,omitempty"`
	LineCount   int     `json:"cantidadLegajos"`
}
