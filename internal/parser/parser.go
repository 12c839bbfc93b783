package parser

import (
	"regexp"
	"strings"

	"github.com/upcn/formu/internal/common"
	"github.com/upcn/formu/internal/models"
)

// variablePattern finds %TOKEN% occurrences; the inner text is uppercase
// alphanumeric.
var variablePattern = regexp.MustCompile(`%([A-Z0-9]+)%`)

// unrecognizedDescription is surfaced on tokens no pattern claims.
const unrecognizedDescription = "unrecognized"

// Parser extracts and classifies the variables embedded in payroll
// formulas. It never fails on input: malformed tokens degrade to a
// synthetic TERMINAL variable.
type Parser struct {
	registry *Registry
}

// New creates a parser over the given pattern registry.
func New(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Range is one (start, end) pair referenced by a RANGE variable, using the
// literal digit strings observed in the formula.
type Range struct {
	Start string
	End   string
}

// Key renders the range map key, e.g. "0050-0100".
func (r Range) Key() string {
	return r.Start + "-" + r.End
}

// Parse extracts every %TOKEN% variable from a formula in scan order.
// The result is non-overlapping, sorted by SpanStart, and empty for
// blank input.
func (p *Parser) Parse(formula string) []models.ParsedVariable {
	if strings.TrimSpace(formula) == "" {
		return nil
	}

	matches := variablePattern.FindAllStringSubmatchIndex(formula, -1)
	if len(matches) == 0 {
		return nil
	}

	variables := make([]models.ParsedVariable, 0, len(matches))
	for _, m := range matches {
		variable := p.ParseVariable(formula[m[2]:m[3]])
		variable.SpanStart = m[0]
		variable.SpanEnd = m[1]
		variables = append(variables, variable)
	}
	return variables
}

// ParseVariable classifies a single token (without the % markers).
// Buckets are tried in fixed priority: RANGE, then SINGLE_CONCEPT, then
// TERMINAL. Unknown tokens come back as a TERMINAL whose prefix and
// display text are the token itself.
func (p *Parser) ParseVariable(name string) models.ParsedVariable {
	for _, pat := range p.registry.ranges {
		m := pat.matcher.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		display := strings.ReplaceAll(pat.displayTemplate, "{nnnn}", m[1])
		display = strings.ReplaceAll(display, "{xxxx}", m[2])
		return models.ParsedVariable{
			Name:               name,
			Prefix:             pat.prefix,
			Kind:               models.KindRange,
			RangeStart:         m[1],
			RangeEnd:           m[2],
			DisplayText:        display,
			Color:              common.HashToColor(name),
			PatternDescription: p.registry.Description(pat.prefix),
		}
	}

	for _, pat := range p.registry.singles {
		m := pat.matcher.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		concept := m[1]

		var display string
		if concept == models.SelfConcept && pat.selfTemplate != "" {
			display = pat.selfTemplate
		} else {
			display = strings.ReplaceAll(pat.displayTemplate, "{nnnn}", concept)
		}

		// CC/CI capture months back and the liquidation-type letter
		if (pat.prefix == "CC" || pat.prefix == "CI") && len(m) >= 5 {
			display = strings.ReplaceAll(display, "{mm}", m[2])
			display = strings.ReplaceAll(display, "{l}", m[4])
		}
		// CALU/CALX capture the liquidation-type letter
		if (pat.prefix == "CALU" || pat.prefix == "CALX") && len(m) >= 3 {
			display = strings.ReplaceAll(display, "{l}", m[2])
		}

		return models.ParsedVariable{
			Name:               name,
			Prefix:             pat.prefix,
			Kind:               models.KindSingleConcept,
			ReferencedConcept:  concept,
			DisplayText:        display,
			Color:              common.HashToColor(concept),
			PatternDescription: p.registry.Description(pat.prefix),
		}
	}

	for _, pat := range p.registry.terminals {
		if pat.matcher.MatchString(name) {
			return models.ParsedVariable{
				Name:               name,
				Prefix:             pat.prefix,
				Kind:               models.KindTerminal,
				DisplayText:        pat.displayTemplate,
				Color:              common.HashToColor(name),
				PatternDescription: p.registry.Description(pat.prefix),
			}
		}
	}

	return models.ParsedVariable{
		Name:               name,
		Prefix:             name,
		Kind:               models.KindTerminal,
		DisplayText:        name,
		Color:              common.HashToColor(name),
		PatternDescription: unrecognizedDescription,
	}
}

// ForwardReferences returns the set of concept codes a formula references
// through SINGLE_CONCEPT variables. The "0000" self sentinel is excluded.
func (p *Parser) ForwardReferences(formula string) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, v := range p.Parse(formula) {
		if v.Kind == models.KindSingleConcept && v.ReferencedConcept != models.SelfConcept {
			refs[v.ReferencedConcept] = struct{}{}
		}
	}
	return refs
}

// Ranges returns the concept ranges a formula references, preserving
// duplicates in order of appearance.
func (p *Parser) Ranges(formula string) []Range {
	var ranges []Range
	for _, v := range p.Parse(formula) {
		if v.Kind == models.KindRange {
			ranges = append(ranges, Range{Start: v.RangeStart, End: v.RangeEnd})
		}
	}
	return ranges
}
