package rag

import (
	"fmt"

	"condorag/store"
	"condorag/types"
)

// blockSeparator visibly divides context chunks in the prompt.
const blockSeparator = "\n\n---\n\n"

// Assembled is the grounded context handed to the synthesizer.
type Assembled struct {
	Blocks  []string
	Sources []string
	Detail  []types.Source
}

// assembleContext renders each match as a labeled block, preferring the
// full chunk text over the truncated preview, and collects provenance.
// Exposed sources are capped; origin distinguishes tenant documents
// from the shared knowledge base.
func (p *Pipeline) assembleContext(matches []store.Match) Assembled {
	var asm Assembled
	seenSource := make(map[string]bool)

	for _, m := range matches {
		text := m.Metadata.FullText
		if text == "" {
			text = m.Metadata.Text
		}
		if text == "" {
			continue
		}

		name := m.Metadata.DisplayName()
		asm.Blocks = append(asm.Blocks, fmt.Sprintf("[Fonte: %s]\n%s", name, text))

		if seenSource[name] || len(asm.Sources) >= p.opts.MaxSources {
			continue
		}
		seenSource[name] = true
		asm.Sources = append(asm.Sources, name)

		origin := "condomínio"
		if m.Metadata.SindicoID == 0 && m.Metadata.CondoID == 0 {
			origin = "base de conhecimento"
		}
		asm.Detail = append(asm.Detail, types.Source{Name: name, Origin: origin})
	}
	return asm
}
