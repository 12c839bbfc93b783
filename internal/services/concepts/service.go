package concepts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/interfaces"
	"github.com/upcn/formu/internal/models"
	"github.com/upcn/formu/internal/parser"
)

// ErrInvalidRange is returned when range bounds are not numeric codes.
var ErrInvalidRange = errors.New("invalid concept range")

// searchLimit caps search results; the front-end autocomplete never shows
// more than this.
const searchLimit = 20

// Service exposes concept queries: listings, search, parsed detail with
// forward and reverse dependencies, and range expansion.
type Service struct {
	corpus interfaces.ConceptCorpus
	parser *parser.Parser
	index  interfaces.DependencyIndex
	logger arbor.ILogger
}

// NewService creates a concept service.
func NewService(corpus interfaces.ConceptCorpus, p *parser.Parser, index interfaces.DependencyIndex, logger arbor.ILogger) *Service {
	return &Service{
		corpus: corpus,
		parser: p,
		index:  index,
		logger: logger,
	}
}

// List returns summaries of every concept, without parsing formulas.
func (s *Service) List(ctx context.Context) ([]models.ConceptDTO, error) {
	concepts, err := s.corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}

	dtos := make([]models.ConceptDTO, 0, len(concepts))
	for _, concept := range concepts {
		dtos = append(dtos, s.toSummaryDTO(&concept))
	}
	return dtos, nil
}

// Search matches the query against code or description, case insensitive,
// capped at 20 hits. Queries shorter than 2 characters return an empty
// list rather than an error.
func (s *Service) Search(ctx context.Context, query string) ([]models.ConceptDTO, error) {
	if len(query) < 2 {
		return []models.ConceptDTO{}, nil
	}

	concepts, err := s.corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search concepts: %w", err)
	}

	lower := strings.ToLower(query)
	dtos := []models.ConceptDTO{}
	for _, concept := range concepts {
		if !strings.Contains(concept.Code, query) &&
			!strings.Contains(strings.ToLower(concept.Description), lower) {
			continue
		}
		dtos = append(dtos, s.toSummaryDTO(&concept))
		if len(dtos) == searchLimit {
			break
		}
	}
	return dtos, nil
}

// Detail returns one concept with parsed variables, forward dependencies
// (formula and condition combined, self reference removed) and reverse
// dependents from the index. Returns interfaces.ErrNotFound for unknown
// codes.
func (s *Service) Detail(ctx context.Context, code string) (*models.ConceptDTO, error) {
	concepts, err := s.corpus.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// A code can carry several formulas; the detail view shows the first
	concept := concepts[0]
	dto := s.toSummaryDTO(&concept)
	dto.BorderColor = common.HashToBorderColor(concept.Code)
	dto.Variables = s.parser.Parse(concept.Formula)
	dto.ConditionVariables = s.parser.Parse(concept.Condition)
	dto.Dependencies = s.forwardDependencies(&concept)
	dto.Dependents = s.index.Dependents(code)
	return &dto, nil
}

// Batch returns details for multiple codes, silently skipping unknown ones.
func (s *Service) Batch(ctx context.Context, codes []string) ([]models.ConceptDTO, error) {
	dtos := []models.ConceptDTO{}
	for _, code := range codes {
		dto, err := s.Detail(ctx, code)
		if errors.Is(err, interfaces.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// Dependencies returns the forward dependencies of one concept.
func (s *Service) Dependencies(ctx context.Context, code string) ([]string, error) {
	concepts, err := s.corpus.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.forwardDependencies(&concepts[0]), nil
}

// Dependents returns the reverse dependents of a code. Unknown codes are
// not an error; they simply have no dependents.
func (s *Service) Dependents(code string) []string {
	return s.index.Dependents(code)
}

// rangeDescriptions maps range prefixes to the listing description.
var rangeDescriptions = map[string]string{
	"SC": "Suma de conceptos definitivos",
	"ST": "Suma de conceptos transitorios",
	"SI": "Suma de valores informados",
	"S":  "Suma de última liquidación",
	"E":  "Especialización",
}

// RangeListing expands a range variable into its member concepts. SC keeps
// only definitive concepts, ST only transitory; other prefixes keep all.
func (s *Service) RangeListing(ctx context.Context, prefix, start, end string) (*models.ConceptRangeDTO, error) {
	if _, err := strconv.Atoi(start); err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
	}
	if _, err := strconv.Atoi(end); err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
	}

	concepts, err := s.corpus.ByCodeRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to expand range %s-%s: %w", start, end, err)
	}

	members := []models.RangeMemberDTO{}
	for _, concept := range concepts {
		switch prefix {
		case "SC":
			if !concept.IsDefinitive() {
				continue
			}
		case "ST":
			if concept.IsDefinitive() {
				continue
			}
		}
		members = append(members, models.RangeMemberDTO{
			Code:        concept.Code,
			Description: concept.Description,
			Definitive:  concept.IsDefinitive(),
			Color:       common.HashToColor(concept.Code),
		})
	}

	description, ok := rangeDescriptions[prefix]
	if !ok {
		description = "Rango de conceptos"
	}

	id := prefix + start + end
	return &models.ConceptRangeDTO{
		ID:          id,
		Type:        prefix,
		StartCode:   start,
		EndCode:     end,
		Description: description,
		Concepts:    members,
		Color:       common.HashToColor(id),
	}, nil
}

// RefreshIndex forces a rebuild of the dependency index and returns the
// resulting stats.
func (s *Service) RefreshIndex(ctx context.Context) (models.IndexStats, error) {
	if err := s.index.Build(ctx); err != nil {
		return s.index.Stats(), err
	}
	return s.index.Stats(), nil
}

// IndexStats returns the current index stats without rebuilding.
func (s *Service) IndexStats() models.IndexStats {
	return s.index.Stats()
}

// IndexDebug returns the index diagnostic view for one code.
func (s *Service) IndexDebug(code string) interfaces.DebugInfo {
	return s.index.Debug(code)
}

func (s *Service) forwardDependencies(concept *models.Concept) []string {
	refs := s.parser.ForwardReferences(concept.Formula)
	for code := range s.parser.ForwardReferences(concept.Condition) {
		refs[code] = struct{}{}
	}

	codes := make([]string, 0, len(refs))
	for code := range refs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s *Service) toSummaryDTO(concept *models.Concept) models.ConceptDTO {
	return models.ConceptDTO{
		Code:             concept.Code,
		Description:      concept.Description,
		FormulaCode:      concept.FormulaCode,
		Formula:          concept.Formula,
		Condition:        concept.Condition,
		ConceptType:      concept.ConceptType,
		LiquidationTypes: concept.LiquidationTypes,
		Order:            concept.Order,
		Definitive:       concept.IsDefinitive(),
		Val1:             concept.Val1,
		Val2:             concept.Val2,
		Val3:             concept.Val3,
		Color:            common.HashToColor(concept.Code),
	}
}
