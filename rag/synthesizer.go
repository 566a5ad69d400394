package rag

import (
	"context"
	"fmt"
	"strings"

	"condorag/model"
	"condorag/types"
)

// Intent-specific system instructions. Lookup answers cite first and
// interpret second; interpretative answers translate the rules into
// practical guidance; everything else gets the neutral assistant.
const (
	systemLookup = `Você é um assistente especializado em gestão condominial e legislação.
Responda com precisão técnica, citando os artigos e dispositivos EXATAMENTE como aparecem nos documentos fornecidos.
Comece pela citação da norma aplicável e só então explique seu alcance.
Se um artigo não constar dos documentos, diga que não foi localizado; nunca invente numeração.`

	systemInterpretative = `Você é um assistente especializado em gestão condominial.
Interprete as regras dos documentos fornecidos de forma prática: diga claramente o que é permitido, o que é proibido e em quais condições.
Baseie cada conclusão nos trechos fornecidos, citando-os quando relevante.`

	systemNeutral = `Você é um assistente especializado em gestão condominial.
Responda de forma completa baseado apenas nas informações fornecidas, incluindo todos os detalhes relevantes.`
)

// completenessDirective is appended to every system prompt.
const completenessDirective = `

REQUISITOS DA RESPOSTA:
- Resposta com no mínimo 500 caracteres.
- Enumere TODAS as regras, condições, valores e exceções encontradas nos trechos; não omita nenhuma.
- Estruture em markdown: introdução, regras enumeradas, citações dos documentos e conclusão.`

func systemPromptFor(t types.QueryType) string {
	switch t {
	case types.QueryLookup:
		return systemLookup + completenessDirective
	case types.QueryInterpretative:
		return systemInterpretative + completenessDirective
	default:
		return systemNeutral + completenessDirective
	}
}

func userPrompt(contextText, question string) string {
	return fmt.Sprintf(`Baseado nos seguintes trechos dos documentos do condomínio:

%s

Pergunta: %s

Responda de forma clara e completa, citando as informações dos documentos.`, contextText, question)
}

// synthesize builds the grounded prompt and delegates to the completion
// provider. Context blocks are dropped from the tail until the prompt
// fits the token budget; at least one block always survives. Returns
// the answer verbatim and the number of context chunks actually used.
func (p *Pipeline) synthesize(ctx context.Context, question string, asm Assembled, cls types.Classification) (string, int, error) {
	system := systemPromptFor(cls.Type)

	blocks := asm.Blocks
	for len(blocks) > 1 {
		prompt := userPrompt(strings.Join(blocks, blockSeparator), question)
		if model.CountTokens(system)+model.CountTokens(prompt) <= p.opts.PromptTokenBudget {
			break
		}
		blocks = blocks[:len(blocks)-1]
	}

	prompt := userPrompt(strings.Join(blocks, blockSeparator), question)
	answer, err := p.completer.Complete(ctx, system, prompt, p.opts.MaxAnswerTokens, p.opts.Temperature)
	if err != nil {
		return "", 0, fmt.Errorf("generate answer: %w", err)
	}
	return answer, len(blocks), nil
}
