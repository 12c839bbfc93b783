package parser

import (
	"regexp"

	"github.com/upcn/formu/internal/models"
)

// pattern is one registered variable shape: an anchored matcher plus the
// display templates used to render it. selfTemplate, when set, replaces
// the normal template for SINGLE_CONCEPT matches that capture "0000".
type pattern struct {
	prefix          string
	matcher         *regexp.Regexp
	kind            models.VariableKind
	displayTemplate string
	selfTemplate    string
}

// Registry is the static table of variable patterns, split into the three
// kind buckets. Matching tries RANGE, then SINGLE_CONCEPT, then TERMINAL;
// within a bucket the first hit wins. Immutable after construction.
type Registry struct {
	ranges       []pattern
	singles      []pattern
	terminals    []pattern
	descriptions map[string]string
}

func rangePattern(prefix, expr, display string) pattern {
	return pattern{prefix: prefix, matcher: regexp.MustCompile(expr), kind: models.KindRange, displayTemplate: display}
}

func singlePattern(prefix, expr, display string) pattern {
	return pattern{prefix: prefix, matcher: regexp.MustCompile(expr), kind: models.KindSingleConcept, displayTemplate: display}
}

func singleSelfPattern(prefix, expr, display, selfDisplay string) pattern {
	p := singlePattern(prefix, expr, display)
	p.selfTemplate = selfDisplay
	return p
}

func terminalPattern(prefix, expr, display string) pattern {
	return pattern{prefix: prefix, matcher: regexp.MustCompile(expr), kind: models.KindTerminal, displayTemplate: display}
}

// Known terminal variables that match literally.
var terminalLiterals = []string{
	"AFILIADO", "ANTIGUEDAD", "ANTIGUEMES", "ANIOSCAT", "ANOLIQ",
	"ANTIBAE", "ANTICIPO", "ART", "BASICOANTI", "CANTADHE",
	"CATEGORIA", "CONCEPTO", "CONCEPTO2", "CONDCONTRA", "CONVENIO",
	"CTOCTO", "DIASGUAR", "DIASHABI", "DIASTRAB", "DIATRAMES",
	"DIATRAMESE", "EDAD", "FERIANT", "FERITRAB", "FRENTE",
	"GASTOSEDUC", "GENNETACU", "GRUPO", "GRUTRAB", "GUARDERIA",
	"INASISTEN", "MESANTIG", "MESCOBBAE", "MESLIQ", "MESNACIM",
	"MODCONT", "OBRASOC", "PERTOPE", "PRESTAMO", "PROMEDIO",
	"QUINCENA", "RDEDUC1", "RG5800", "RGCAFACO", "RGCAFACOFI",
	"RGCAFAHI", "RGCAFAHIFI", "RGCAFAOT", "RGCAFAOTFI", "RGDEDINA",
	"RGDEDIND", "RGGANOIM", "RGPRIMSE", "RGSEGSEP", "SACDIA",
	"SEXO", "TARDANZA", "TIPOEMP", "TIPOLIQ", "TOTEMBAR",
	"VACANOLIQ", "VACDIADCT", "VACDIADIG", "VACDIADL1", "VACDIADL2",
	"VACDIADLI", "VACDIALIQ", "VACDIAVAC", "VACMESLIQ",
	"F572DRE", "F572FACO", "F572FADI", "F572FAHI", "F572FAOT",
	"F572HOE", "F572HOR", "F572OGC", "F572ORE", "F572OSE",
	"F572OSI", "F572OSS", "F572SAC", "PBAEANTIGA", "PBAEANTIGC",
}

// NewRegistry builds the pattern table. New patterns go here; TERMINAL
// patterns must stay disjoint from the SINGLE_CONCEPT regexes because a
// token is only tested against TERMINAL after the other buckets miss.
func NewRegistry() *Registry {
	r := &Registry{
		descriptions: map[string]string{
			"CALC": "Importe calculado en el concepto indicado",
			"INFO": "Valor informado en el parte de novedades",
			"SC":   "Sumatoria de conceptos definitivos del rango",
			"ST":   "Sumatoria de conceptos transitorios del rango",
			"SI":   "Sumatoria de valores informados del rango",
		},
	}

	r.ranges = []pattern{
		rangePattern("SC", `^SC(\d{4})(\d{4})$`, "Suma definitivos {nnnn}-{xxxx}"),
		rangePattern("ST", `^ST(\d{4})(\d{4})$`, "Suma transitorios {nnnn}-{xxxx}"),
		rangePattern("SI", `^SI(\d{4})(\d{4})$`, "Suma informados {nnnn}-{xxxx}"),
		rangePattern("S", `^S(\d{4})(\d{4})[A-Z]$`, "Suma última liq. {nnnn}-{xxxx}"),
		rangePattern("E", `^E(\d{4})(\d{4})\d$`, "Especialización {nnnn}-{xxxx}"),
		rangePattern("MM", `^MM(\d{4})(\d{4})$`, "Menor valor {nnnn} y {xxxx}"),
	}

	r.singles = []pattern{
		singlePattern("CALC", `^CALC(\d{4})$`, "Valor de {nnnn}"),
		singleSelfPattern("INFO", `^INFO(\d{4})$`, "Informado en {nnnn}", "Informado en este concepto"),
		singlePattern("REDO", `^REDO(\d{4})$`, "Redondeo de {nnnn}"),
		singleSelfPattern("VAL1", `^VAL1(\d{4})$`, "Valor 1 de {nnnn}", "Valor 1 de este concepto"),
		singleSelfPattern("VAL2", `^VAL2(\d{4})$`, "Valor 2 de {nnnn}", "Valor 2 de este concepto"),
		singleSelfPattern("VAL3", `^VAL3(\d{4})$`, "Valor 3 de {nnnn}", "Valor 3 de este concepto"),
		singleSelfPattern("FVA1", `^FVA1(\d{4})$`, "Valor fijo 1 del legajo, del concepto {nnnn}", "Valor fijo 1 del legajo, de este concepto"),
		singleSelfPattern("FVA2", `^FVA2(\d{4})$`, "Valor fijo 2 del legajo, del concepto {nnnn}", "Valor fijo 2 del legajo, de este concepto"),
		singleSelfPattern("FVA3", `^FVA3(\d{4})$`, "Valor fijo 3 del legajo, del concepto {nnnn}", "Valor fijo 3 del legajo, de este concepto"),
		singleSelfPattern("BASI", `^BASI(\d{4})$`, "Básico de comp. salarial {nnnn}", "Básico de su comp. salarial"),
		singleSelfPattern("ADIC", `^ADIC(\d{4})$`, "Adicional de comp. salarial {nnnn}", "Adicional de su comp. salarial"),
		singlePattern("COMS", `^COMS(\d{4})$`, "Comp. salarial {nnnn}"),
		singlePattern("PCON", `^PCON(\d{4})$`, "Concepto {nnnn} de comp. salarial"),
		singlePattern("PCOM", `^PCOM(\d{4})$`, "Concepto actual en comp. {nnnn}"),
		singlePattern("CGAN", `^CGAN(\d{4})$`, "Calc. Ganancias de {nnnn}"),
		singlePattern("PROVAC", `^PROVAC(\d{4})$`, "Provisión vacaciones de {nnnn}"),

		// nnnn plus extra parameters, still a single-concept reference
		singlePattern("CALU", `^CALU(\d{4})([A-Z0-9])$`, "Valor de {nnnn} de última liq. tipo {l}"),
		singlePattern("CALX", `^CALX(\d{4})([A-Z0-9])$`, "Valor de {nnnn} de última liq. tipo {l}"),
		singlePattern("CSEM", `^CSEM(\d{4})\d[A-Z]$`, "Semestre de {nnnn}"),
		singlePattern("CSEP", `^CSEP(\d{4})\d[A-Z]$`, "Semestre prev. de {nnnn}"),
		singlePattern("MSEM", `^MSEM(\d{4})\d[A-Z]$`, "Mayor en semestre de {nnnn}"),
		singlePattern("CC", `^CC(\d{4})([A-Z0-9]{2})(\d)(\d)$`, "Valor de {nnnn}, liq. {l} de {mm} meses atrás"),
		singlePattern("CI", `^CI(\d{4})([A-Z0-9]{2})(\d)(\d)$`, "Inf. de {nnnn}, liq. {l} de {mm} meses atrás"),
		singlePattern("AC", `^AC(\d{4})\d{2}\d[A-Z]$`, "Acum. calc. de {nnnn}"),
		singlePattern("AI", `^AI(\d{4})\d{2}\d[A-Z]$`, "Acum. inf. de {nnnn}"),

		// Historic liquidation lookups: 0nnnnaammq, Lnnnnaammq, Annnnaammq, Bnnnnaammq
		singlePattern("0", `^0(\d{4})\d{5}$`, "Sueldo hist. de {nnnn}"),
		singlePattern("L", `^L(\d{4})\d{5}$`, "Liq. normal hist. de {nnnn}"),
		singlePattern("A", `^A(\d{4})\d{5}$`, "Aguinaldo hist. de {nnnn}"),
		singlePattern("B", `^B(\d{4})\d{5}$`, "BAE hist. de {nnnn}"),
	}

	for _, literal := range terminalLiterals {
		r.terminals = append(r.terminals, terminalPattern(literal, "^"+regexp.QuoteMeta(literal)+"$", literal))
	}

	r.terminals = append(r.terminals,
		// Parameterised, but without a concept reference
		terminalPattern("ANOTRA", `^ANOTRA\d{3}$`, "Años trabajados"),
		terminalPattern("ATENC", `^ATENC\d{4}$`, "Atención"),
		terminalPattern("DIATRAANO", `^DIATRAANO\d$`, "Días trab. año"),
		terminalPattern("DIATRASEI", `^DIATRASEI\d$`, "Días trab. semestre"),
		terminalPattern("DIATRASEM", `^DIATRASEM\d$`, "Días trab. semestre"),
		terminalPattern("DIAINASEM", `^DIAINASEM\d$`, "Días inas. semestre"),
		terminalPattern("EMBARGO", `^EMBARGO\d$`, "Embargo"),
		terminalPattern("ESPEC", `^ESPEC\d$`, "Especialización"),
		terminalPattern("FAMI", `^FAMI\d{3}$`, "Salario familiar"),
		terminalPattern("FERI", `^FERI\d$`, "Feriados"),
		terminalPattern("F572DED", `^F572DED\d{2}$`, "Deducción F572"),
		terminalPattern("F572MOT", `^F572MOT\d$`, "Motivo F572"),
		terminalPattern("GCIA", `^GCIA\d{4}$`, "Ganancias"),
		terminalPattern("GANP", `^GANP\d{4}[A-Z]\d$`, "Promedio ganancias"),
		terminalPattern("MESF", `^MESF\d{4}$`, "Mes fijos"),
		terminalPattern("MESTRA", `^MESTRA\d{2}$`, "Meses trabajados"),
		terminalPattern("MOT", `^MOT\d{6}$`, "Motivo ausencia"),
		terminalPattern("TMO", `^TMO\d{6}$`, "Tipo motivo"),
		terminalPattern("PARLIQ", `^PARLIQ\d{3}$`, "Parámetro liq."),
		terminalPattern("PBAEACUM", `^PBAEACUM\d$`, "% BAE acum."),
		terminalPattern("P572DED", `^P572DED\d{2}$`, "Deducción P572"),
		terminalPattern("RCALIG", `^RCALIG\d{4}$`, "Recálculo gan."),
		terminalPattern("CCTO", `^CCTO\d{4}$`, "Centro costo"),
		terminalPattern("PCONX", `^PCONX\d{4}\d$`, "Concepto comp. +"),

		// Historic totals
		terminalPattern("TAP", `^TAP\d{6}$`, "Total aportes"),
		terminalPattern("TCR", `^TCR\d{6}$`, "Total rem. c/aportes"),
		terminalPattern("TDE", `^TDE\d{6}$`, "Total descuentos"),
		terminalPattern("TRE", `^TRE\d{6}$`, "Total retenciones"),
		terminalPattern("TSF", `^TSF\d{6}$`, "Total sal. familiar"),
		terminalPattern("TSR", `^TSR\d{6}$`, "Total rem. s/aportes"),
		terminalPattern("TTAP", `^TTAP\d{4}$`, "Total aportes patr."),
		terminalPattern("TTCR", `^TTCR\d{4}$`, "Total rem. c/desc."),
		terminalPattern("TTDE", `^TTDE\d{4}$`, "Total deducciones"),
		terminalPattern("TTRE", `^TTRE\d{4}$`, "Total retenciones"),
		terminalPattern("TTSF", `^TTSF\d{4}$`, "Total sal. fam."),
		terminalPattern("TTSR", `^TTSR\d{4}$`, "Total rem. s/desc."),

		// Totals over a range
		terminalPattern("ZAP", `^ZAP\d{8}$`, "Rango aportes"),
		terminalPattern("ZCR", `^ZCR\d{8}$`, "Rango rem. c/ret."),
		terminalPattern("ZDE", `^ZDE\d{8}$`, "Rango deducciones"),
		terminalPattern("ZRE", `^ZRE\d{8}$`, "Rango retenciones"),
		terminalPattern("ZSF", `^ZSF\d{8}$`, "Rango sal. fam."),
		terminalPattern("ZSR", `^ZSR\d{8}$`, "Rango rem. s/ret."),

		// Highest salary lookups
		terminalPattern("SUEMAANO", `^SUEMAANO\d[A-Z]$`, "Mayor sueldo año"),
		terminalPattern("SUEMASEI", `^SUEMASEI\d[A-Z]$`, "Mayor sueldo 6 meses"),
		terminalPattern("SUEMASEM", `^SUEMASEM\d[A-Z]$`, "Mayor sueldo sem."),
	)

	return r
}

// Description returns the dictionary text for a pattern prefix, or "".
func (r *Registry) Description(prefix string) string {
	return r.descriptions[prefix]
}
