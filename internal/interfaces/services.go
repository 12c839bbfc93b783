package interfaces

import (
	"context"

	"github.com/upcn/formu/internal/models"
)

// DependencyIndex - reverse dependency lookups over the concept corpus.
// Queries hit an immutable snapshot; Build swaps in a fresh one.
type DependencyIndex interface {
	// Build recomputes the index from the corpus and atomically installs
	// the result. Concurrent calls are serialized; on failure the
	// previous snapshot stays in place.
	Build(ctx context.Context) error

	// Ready reports whether at least one build has completed.
	Ready() bool

	// Dependents returns the codes of concepts whose formulas reference
	// the given code, directly or through a containing range. Sorted,
	// deduplicated. Empty before the first build.
	Dependents(code string) []string

	// DirectDependents returns only the direct (non-range) dependents.
	DirectDependents(code string) []string

	// RangesContaining returns the range keys ("lo-hi") whose span covers
	// the given code.
	RangesContaining(code string) []string

	// DependentsOfRange returns the codes of concepts whose formulas
	// reference exactly the given range.
	DependentsOfRange(start, end string) []string

	// Stats describes the current snapshot.
	Stats() models.IndexStats

	// Debug returns a diagnostic view of one code's index entries.
	Debug(code string) DebugInfo
}

// DebugInfo is the payload of the index debug endpoint.
type DebugInfo struct {
	Code             string   `json:"codigo"`
	Ready            bool     `json:"indiceListo"`
	DirectDependents []string `json:"dependientesDirectos"`
	RangeKeys        []string `json:"rangosQueLoContienen"`
	Dependents       []string `json:"dependientes"`
	SampleKeys       []string `json:"clavesEjemplo"`
}
