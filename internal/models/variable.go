package models

// VariableKind classifies a parsed formula variable.
type VariableKind string

const (
	// KindSingleConcept references exactly one other concept (e.g. CALC3498).
	KindSingleConcept VariableKind = "SINGLE_CONCEPT"
	// KindRange references a numeric range of concepts (e.g. SC01003600).
	KindRange VariableKind = "RANGE"
	// KindTerminal carries no concept reference (e.g. ANTIGUEDAD).
	KindTerminal VariableKind = "TERMINAL"
)

// SelfConcept is the sentinel concept code meaning "this concept".
// It is kept on the parsed variable but excluded from forward
// dependencies.
const SelfConcept = "0000"

// ParsedVariable is one %TOKEN% occurrence classified against the pattern
// registry. The list for a formula is non-overlapping and sorted by
// SpanStart.
type ParsedVariable struct {
	Name               string       `json:"nombre"`
	Prefix             string       `json:"prefijo"`
	Kind               VariableKind `json:"tipo"`
	ReferencedConcept  string       `json:"conceptoReferenciado,omitempty"`
	RangeStart         string       `json:"rangoInicio,omitempty"`
	RangeEnd           string       `json:"rangoFin,omitempty"`
	DisplayText        string       `json:"textoMostrar"`
	Color              string       `json:"color"`
	PatternDescription string       `json:"descripcionPatron,omitempty"`
	SpanStart          int          `json:"posicionInicio"`
	SpanEnd            int          `json:"posicionFin"`
}

// ReferencesSelf reports whether the variable points at its own concept.
func (v *ParsedVariable) ReferencesSelf() bool {
	return v.Kind == KindSingleConcept && v.ReferencedConcept == SelfConcept
}
