package rag

import (
	"regexp"
	"strings"

	"condorag/types"
)

// Intent patterns, checked in fixed priority order. First match wins,
// so a question that both cites an article and asks for permission is
// a lookup.
var intentRules = []struct {
	queryType types.QueryType
	pattern   *regexp.Regexp
}{
	{types.QueryLookup, regexp.MustCompile(`\bart(\.|igo)?\s*\d+|\blei\b|\bdecreto\b|\bnorma\s+\d|\bcódigo civil\b|\bcodigo civil\b`)},
	{types.QueryInterpretative, regexp.MustCompile(`\bposso\b|\bpode(m|mos)?\b|\bpermitido\b|\bproibido\b|\bobrigat[óo]ri\w*|\bdevo\b|\btenho direito\b|\b[ée] permitida?\b`)},
	{types.QueryComparative, regexp.MustCompile(`\bdiferen[çc]a\b|\bcomparar?\b|\bcompara[çc][ãa]o\b|\bversus\b|\bvs\.?\b|\bmelhor que\b`)},
	{types.QueryProcedural, regexp.MustCompile(`\bcomo fa[çc]o\b|\bcomo proceder\b|\bpasso a passo\b|\bprocedimento\b|\bprocesso\b|\betapas\b|\bquais os passos\b`)},
	{types.QueryTemporal, regexp.MustCompile(`\b(19|20)\d{2}\b|\bvigente\b|\bem vigor\b|\bainda vale\b|\batualizada?\b|\batualmente\b`)},
}

var (
	articleRef = regexp.MustCompile(`\bart(\.|igo)?\s*\d+`)
	yearRef    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Classify labels a query by intent. Total and deterministic: the same
// string always yields the same type.
func Classify(query string) types.Classification {
	q := strings.ToLower(query)

	cls := types.Classification{
		Type: types.QueryGeneral,
		Flags: map[string]bool{
			"article_ref": articleRef.MatchString(q),
			"year":        yearRef.MatchString(q),
		},
	}
	for _, rule := range intentRules {
		if rule.pattern.MatchString(q) {
			cls.Type = rule.queryType
			break
		}
	}
	return cls
}
