package rag

import (
	"sort"
	"strings"

	"condorag/types"
)

// maxExpansions caps the number of query variants per question.
const maxExpansions = 5

// Intent-specific reformulation templates. At most two are applied.
var reformulations = map[types.QueryType][]string{
	types.QueryLookup:         {"artigo sobre %s", "regulamento %s"},
	types.QueryInterpretative: {"regras sobre %s", "normas de %s", "regulamento %s"},
	types.QueryProcedural:     {"procedimento para %s", "como funciona %s"},
	types.QueryComparative:    {"regras de %s"},
	types.QueryTemporal:       {"norma vigente sobre %s"},
}

// Condominium vocabulary. For each term present in the query up to
// three synonyms are substituted to produce alternate phrasings.
var synonyms = map[string][]string{
	"cachorro":   {"animal", "pet", "animal de estimação"},
	"gato":       {"animal", "pet"},
	"animal":     {"pet", "animal de estimação"},
	"barulho":    {"ruído", "som alto", "perturbação do sossego"},
	"festa":      {"evento", "confraternização"},
	"garagem":    {"vaga", "estacionamento"},
	"piscina":    {"área de lazer"},
	"síndico":    {"administrador", "gestor"},
	"taxa":       {"cota condominial", "mensalidade", "contribuição"},
	"multa":      {"penalidade", "sanção"},
	"obra":       {"reforma", "construção"},
	"visita":     {"visitante", "convidado"},
	"mudança":    {"transporte de móveis"},
	"inquilino":  {"locatário", "morador"},
	"elevador":   {"área comum"},
	"salão":      {"salão de festas", "espaço comum"},
	"funcionário": {"empregado", "colaborador"},
}

// Expand generates up to maxExpansions unique query variants, the
// original query always first. Order is first-seen.
func Expand(query string, cls types.Classification) []string {
	out := []string{query}
	seen := map[string]bool{normalize(query): true}

	add := func(q string) {
		key := normalize(q)
		if len(out) >= maxExpansions || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, q)
	}

	templates := reformulations[cls.Type]
	if len(templates) > 2 {
		templates = templates[:2]
	}
	for _, tpl := range templates {
		add(strings.Replace(tpl, "%s", query, 1))
	}

	lower := strings.ToLower(query)
	var terms []string
	for term := range synonyms {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms) // map order is random; variants must be stable

	for _, term := range terms {
		subs := synonyms[term]
		if len(subs) > 3 {
			subs = subs[:3]
		}
		for _, sub := range subs {
			add(replaceTerm(query, term, sub))
		}
	}
	return out
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// replaceTerm swaps the first case-insensitive occurrence of term.
func replaceTerm(query, term, sub string) string {
	lower := strings.ToLower(query)
	idx := strings.Index(lower, term)
	if idx < 0 {
		return query
	}
	return query[:idx] + sub + query[idx+len(term):]
}
