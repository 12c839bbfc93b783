package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcn/formu/internal/models"
)

func newTestParser() *Parser {
	return New(NewRegistry())
}

func TestParse_BlankInput(t *testing.T) {
	p := newTestParser()

	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("   "))
	assert.Empty(t, p.Parse("1+2*3"))
	assert.Empty(t, p.ForwardReferences(""))
	assert.Empty(t, p.Ranges(""))
}

func TestParseVariable_Classification(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name        string
		wantPrefix  string
		wantKind    models.VariableKind
		wantConcept string
		wantStart   string
		wantEnd     string
		wantDisplay string
	}{
		{"CALC3498", "CALC", models.KindSingleConcept, "3498", "", "", "Valor de 3498"},
		{"INFO0100", "INFO", models.KindSingleConcept, "0100", "", "", "Informado en 0100"},
		{"REDO0200", "REDO", models.KindSingleConcept, "0200", "", "", "Redondeo de 0200"},
		{"PROVAC1234", "PROVAC", models.KindSingleConcept, "1234", "", "", "Provisión vacaciones de 1234"},
		{"CALU0300N", "CALU", models.KindSingleConcept, "0300", "", "", "Valor de 0300 de última liq. tipo N"},
		{"CSEM0400" + "1A", "CSEM", models.KindSingleConcept, "0400", "", "", "Semestre de 0400"},
		{"CC01000500", "CC", models.KindSingleConcept, "0100", "", "", "Valor de 0100, liq. 0 de 05 meses atrás"},
		{"CI02001212", "CI", models.KindSingleConcept, "0200", "", "", "Inf. de 0200, liq. 2 de 12 meses atrás"},
		{"AC0100121A", "AC", models.KindSingleConcept, "0100", "", "", "Acum. calc. de 0100"},
		{"0010024031", "0", models.KindSingleConcept, "0100", "", "", "Sueldo hist. de 0100"},
		{"L010024031", "L", models.KindSingleConcept, "0100", "", "", "Liq. normal hist. de 0100"},
		{"A010024031", "A", models.KindSingleConcept, "0100", "", "", "Aguinaldo hist. de 0100"},
		{"B010024031", "B", models.KindSingleConcept, "0100", "", "", "BAE hist. de 0100"},
		{"SC00500100", "SC", models.KindRange, "", "0050", "0100", "Suma definitivos 0050-0100"},
		{"ST01003600", "ST", models.KindRange, "", "0100", "3600", "Suma transitorios 0100-3600"},
		{"SI02000300", "SI", models.KindRange, "", "0200", "0300", "Suma informados 0200-0300"},
		{"S01000200N", "S", models.KindRange, "", "0100", "0200", "Suma última liq. 0100-0200"},
		{"E010002001", "E", models.KindRange, "", "0100", "0200", "Especialización 0100-0200"},
		{"MM01000200", "MM", models.KindRange, "", "0100", "0200", "Menor valor 0100 y 0200"},
		{"ANTIGUEDAD", "ANTIGUEDAD", models.KindTerminal, "", "", "", "ANTIGUEDAD"},
		{"SEXO", "SEXO", models.KindTerminal, "", "", "", "SEXO"},
		{"FAMI123", "FAMI", models.KindTerminal, "", "", "", "Salario familiar"},
		{"GCIA1234", "GCIA", models.KindTerminal, "", "", "", "Ganancias"},
		{"ZAP12345678", "ZAP", models.KindTerminal, "", "", "", "Rango aportes"},
		{"SUEMAANO1A", "SUEMAANO", models.KindTerminal, "", "", "", "Mayor sueldo año"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := p.ParseVariable(tt.name)
			assert.Equal(t, tt.name, v.Name)
			assert.Equal(t, tt.wantPrefix, v.Prefix)
			assert.Equal(t, tt.wantKind, v.Kind)
			assert.Equal(t, tt.wantConcept, v.ReferencedConcept)
			assert.Equal(t, tt.wantStart, v.RangeStart)
			assert.Equal(t, tt.wantEnd, v.RangeEnd)
			assert.Equal(t, tt.wantDisplay, v.DisplayText)
			assert.NotEmpty(t, v.Color)
		})
	}
}

func TestParseVariable_SelfReference(t *testing.T) {
	p := newTestParser()

	// INFO defines a self template
	v := p.ParseVariable("INFO0000")
	assert.Equal(t, models.SelfConcept, v.ReferencedConcept)
	assert.Equal(t, "Informado en este concepto", v.DisplayText)
	assert.True(t, v.ReferencesSelf())

	// CALC does not: the normal template applies with "0000"
	v = p.ParseVariable("CALC0000")
	assert.Equal(t, models.SelfConcept, v.ReferencedConcept)
	assert.Equal(t, "Valor de 0000", v.DisplayText)
}

func TestParseVariable_Unrecognized(t *testing.T) {
	p := newTestParser()

	v := p.ParseVariable("FOO123")
	assert.Equal(t, "FOO123", v.Name)
	assert.Equal(t, "FOO123", v.Prefix)
	assert.Equal(t, models.KindTerminal, v.Kind)
	assert.Equal(t, "FOO123", v.DisplayText)
	assert.Equal(t, "unrecognized", v.PatternDescription)
}

func TestParseVariable_PatternDescriptions(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, "Importe calculado en el concepto indicado", p.ParseVariable("CALC0100").PatternDescription)
	assert.Equal(t, "Sumatoria de conceptos definitivos del rango", p.ParseVariable("SC00500100").PatternDescription)
	assert.Empty(t, p.ParseVariable("REDO0100").PatternDescription)
}

func TestParse_Spans(t *testing.T) {
	p := newTestParser()

	formula := "X %CC01000500%%FOO%"
	variables := p.Parse(formula)
	require.Len(t, variables, 2)

	assert.Equal(t, "CC01000500", variables[0].Name)
	assert.Equal(t, models.KindSingleConcept, variables[0].Kind)
	assert.Equal(t, "0100", variables[0].ReferencedConcept)
	assert.Equal(t, "Valor de 0100, liq. 0 de 05 meses atrás", variables[0].DisplayText)
	assert.Equal(t, 2, variables[0].SpanStart)
	assert.Equal(t, 14, variables[0].SpanEnd)

	assert.Equal(t, "FOO", variables[1].Name)
	assert.Equal(t, models.KindTerminal, variables[1].Kind)
	assert.Equal(t, "unrecognized", variables[1].PatternDescription)
	assert.Equal(t, 14, variables[1].SpanStart)
	assert.Equal(t, 19, variables[1].SpanEnd)
}

func TestParse_SpansCoverAllTokens(t *testing.T) {
	p := newTestParser()

	formulas := []string{
		"%CALC0100%+%INFO0200%*2",
		"SI(%ANTIGUEDAD%>10;%SC00500100%;%VAL10000%)",
		"%CALC0100%%CALC0100%%FOO%",
	}

	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			variables := p.Parse(formula)

			total := 0
			prevEnd := 0
			for _, v := range variables {
				assert.GreaterOrEqual(t, v.SpanStart, prevEnd, "overlapping spans")
				assert.Equal(t, "%"+v.Name+"%", formula[v.SpanStart:v.SpanEnd])
				total += v.SpanEnd - v.SpanStart
				prevEnd = v.SpanEnd
			}

			// Sum of span widths equals the total length of all %…% substrings
			expected := 0
			for _, m := range variablePattern.FindAllString(formula, -1) {
				expected += len(m)
			}
			assert.Equal(t, expected, total)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	p := newTestParser()

	formula := "%CALC0100%+%SC00500100%-%FOO%"
	first := p.Parse(formula)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Parse(formula))
	}
}

func TestForwardReferences(t *testing.T) {
	p := newTestParser()

	refs := p.ForwardReferences("%CALC0100%+%INFO0200%+%CALC0100%+%VAL30000%+%SC00500100%+%ANTIGUEDAD%")

	// Deduped, self sentinel and non-single kinds excluded
	assert.Len(t, refs, 2)
	assert.Contains(t, refs, "0100")
	assert.Contains(t, refs, "0200")
	assert.NotContains(t, refs, "0000")
}

func TestRanges_PreservesDuplicatesInOrder(t *testing.T) {
	p := newTestParser()

	ranges := p.Ranges("%SC00500100%+%ST02000300%+%SC00500100%")
	require.Len(t, ranges, 3)
	assert.Equal(t, Range{Start: "0050", End: "0100"}, ranges[0])
	assert.Equal(t, Range{Start: "0200", End: "0300"}, ranges[1])
	assert.Equal(t, Range{Start: "0050", End: "0100"}, ranges[2])
	assert.Equal(t, "0050-0100", ranges[0].Key())
}

func TestParse_PriorityRangeBeforeSingle(t *testing.T) {
	p := newTestParser()

	// "S" range pattern (S + 8 digits + letter) must win over the historic
	// single patterns even though both start with a letter prefix.
	v := p.ParseVariable("S01000200A")
	assert.Equal(t, models.KindRange, v.Kind)
	assert.Equal(t, "S", v.Prefix)
}

func TestParse_LongFormula(t *testing.T) {
	p := newTestParser()

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("%CALC0100%+")
	}
	variables := p.Parse(sb.String())
	assert.Len(t, variables, 50)
}
