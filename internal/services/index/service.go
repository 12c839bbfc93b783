package index

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
	"github.com/upcn/formu/internal/parser"
)

// rangeEntry is one range referenced by at least one formula, with its
// numeric bounds pre-parsed for containment checks.
type rangeEntry struct {
	lo, hi     int
	dependents map[string]struct{}
}

// snapshot is one immutable build result. Queries read whichever snapshot
// is installed; Build prepares a new one off to the side and swaps it in.
type snapshot struct {
	direct  map[string]map[string]struct{}
	ranges  map[string]rangeEntry
	builtAt time.Time
}

// Service maintains the reverse dependency index: concept code → codes of
// concepts whose formulas reference it, directly or through a range.
type Service struct {
	corpus            interfaces.ConceptCorpus
	parser            *parser.Parser
	logger            arbor.ILogger
	expirationMinutes int

	buildMu sync.Mutex // serializes rebuilds
	mu      sync.RWMutex
	snap    *snapshot
}

// NewService creates an index service. The index is empty (not ready)
// until the first Build completes.
func NewService(corpus interfaces.ConceptCorpus, p *parser.Parser, logger arbor.ILogger, expirationMinutes int) interfaces.DependencyIndex {
	return &Service{
		corpus:            corpus,
		parser:            p,
		logger:            logger,
		expirationMinutes: expirationMinutes,
	}
}

// Build recomputes the index from the corpus and atomically installs the
// result. On corpus failure the previous snapshot stays in place.
func (s *Service) Build(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()

	concepts, err := s.corpus.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Dependency index build failed, keeping previous snapshot")
		return fmt.Errorf("failed to build dependency index: %w", err)
	}

	next := &snapshot{
		direct:  make(map[string]map[string]struct{}),
		ranges:  make(map[string]rangeEntry),
		builtAt: time.Now(),
	}

	for _, concept := range concepts {
		// Both the formula and its guard condition contribute references
		for _, text := range []string{concept.Formula, concept.Condition} {
			if strings.TrimSpace(text) == "" {
				continue
			}

			for referenced := range s.parser.ForwardReferences(text) {
				addDependent(next.direct, referenced, concept.Code)
			}

			for _, r := range s.parser.Ranges(text) {
				key := r.Key()
				entry, ok := next.ranges[key]
				if !ok {
					lo, loErr := strconv.Atoi(r.Start)
					hi, hiErr := strconv.Atoi(r.End)
					if loErr != nil || hiErr != nil {
						s.logger.Warn().
							Str("range", key).
							Str("concept", concept.Code).
							Msg("Skipping range with non-numeric bounds")
						continue
					}
					entry = rangeEntry{lo: lo, hi: hi, dependents: make(map[string]struct{})}
				}
				entry.dependents[concept.Code] = struct{}{}
				next.ranges[key] = entry
			}
		}
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.logger.Info().
		Int("concepts", len(concepts)).
		Int("direct_entries", len(next.direct)).
		Int("range_entries", len(next.ranges)).
		Str("elapsed", time.Since(start).String()).
		Msg("Dependency index built")
	return nil
}

func addDependent(m map[string]map[string]struct{}, key, dependent string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[dependent] = struct{}{}
}

func (s *Service) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Ready reports whether at least one build has completed.
func (s *Service) Ready() bool {
	return s.snapshot() != nil
}

// Dependents returns the concepts referencing the given code, directly or
// through a containing range. Sorted and deduplicated; empty before the
// first build.
func (s *Service) Dependents(code string) []string {
	snap := s.snapshot()
	if snap == nil {
		s.logger.Warn().Str("code", code).Msg("Dependency index not ready")
		return []string{}
	}

	result := make(map[string]struct{})
	for dependent := range snap.direct[code] {
		result[dependent] = struct{}{}
	}

	// Range containment is resolved here rather than at build time, so
	// the index stays proportional to the number of distinct ranges.
	if num, err := strconv.Atoi(code); err == nil {
		for _, entry := range snap.ranges {
			if num >= entry.lo && num <= entry.hi {
				for dependent := range entry.dependents {
					result[dependent] = struct{}{}
				}
			}
		}
	}

	return sortedKeys(result)
}

// DirectDependents returns only the non-range dependents of a code.
func (s *Service) DirectDependents(code string) []string {
	snap := s.snapshot()
	if snap == nil {
		return []string{}
	}
	return sortedKeys(snap.direct[code])
}

// RangesContaining returns the range keys whose span covers the code.
func (s *Service) RangesContaining(code string) []string {
	snap := s.snapshot()
	if snap == nil {
		return []string{}
	}

	num, err := strconv.Atoi(code)
	if err != nil {
		return []string{}
	}

	keys := []string{}
	for key, entry := range snap.ranges {
		if num >= entry.lo && num <= entry.hi {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// DependentsOfRange returns the concepts referencing exactly this range.
func (s *Service) DependentsOfRange(start, end string) []string {
	snap := s.snapshot()
	if snap == nil {
		return []string{}
	}
	entry, ok := snap.ranges[start+"-"+end]
	if !ok {
		return []string{}
	}
	return sortedKeys(entry.dependents)
}

// Stats describes the installed snapshot.
func (s *Service) Stats() models.IndexStats {
	snap := s.snapshot()
	stats := models.IndexStats{
		ExpirationMinutes: s.expirationMinutes,
	}
	if snap == nil {
		return stats
	}

	stats.Ready = true
	stats.DirectEntries = len(snap.direct)
	stats.RangeEntries = len(snap.ranges)
	stats.Entries = stats.DirectEntries + stats.RangeEntries
	stats.BuiltAt = snap.builtAt

	for code, dependents := range snap.direct {
		if len(dependents) > stats.TopFanIn {
			stats.TopFanIn = len(dependents)
			stats.TopConcept = code
		}
	}
	for key, entry := range snap.ranges {
		if len(entry.dependents) > stats.TopFanIn {
			stats.TopFanIn = len(entry.dependents)
			stats.TopConcept = key
		}
	}
	return stats
}

// Debug returns a diagnostic view of one code's index entries.
func (s *Service) Debug(code string) interfaces.DebugInfo {
	info := interfaces.DebugInfo{
		Code:             code,
		Ready:            s.Ready(),
		DirectDependents: s.DirectDependents(code),
		RangeKeys:        s.RangesContaining(code),
		Dependents:       s.Dependents(code),
		SampleKeys:       []string{},
	}

	snap := s.snapshot()
	if snap == nil {
		return info
	}
	for key := range snap.direct {
		info.SampleKeys = append(info.SampleKeys, key)
		if len(info.SampleKeys) == 10 {
			break
		}
	}
	sort.Strings(info.SampleKeys)
	return info
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
