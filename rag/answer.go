package rag

import (
	"context"
	"fmt"
	"time"

	"condorag/types"
)

// Answer runs the full query pipeline: classify, expand, retrieve
// across both namespaces, merge, filter, assemble and synthesize.
// Provider failures come back as a failed result, never as a panic or
// a bare error; no-match and below-threshold are normal outcomes with
// fixed messages.
func (p *Pipeline) Answer(ctx context.Context, question string, tenant types.Tenant) types.AnswerResult {
	started := time.Now()

	cls := Classify(question)
	queries := Expand(question, cls)

	p.log.Info("answering query",
		"namespace", tenant.Namespace(),
		"query_type", cls.Type,
		"expansions", len(queries))

	ret, err := p.retrieve(ctx, queries, tenant)
	if err != nil {
		p.log.Error("retrieval failed", "error", err)
		return failedAnswer(cls, fmt.Sprintf("Erro ao processar busca: %v", err), err)
	}

	if ret.Raw == 0 {
		return emptyAnswer(cls, MsgNoMatches)
	}
	if len(ret.Matches) == 0 {
		return emptyAnswer(cls, MsgBelowThreshold)
	}

	asm := p.assembleContext(ret.Matches)
	if len(asm.Blocks) == 0 {
		return emptyAnswer(cls, MsgBelowThreshold)
	}

	answer, used, err := p.synthesize(ctx, question, asm, cls)
	if err != nil {
		p.log.Error("synthesis failed", "error", err)
		return failedAnswer(cls, fmt.Sprintf("Erro ao processar busca: %v", err), err)
	}

	p.log.Info("query answered",
		"chunks_used", used,
		"confidence", ret.Matches[0].Score,
		"took", time.Since(started))

	return types.AnswerResult{
		Success:    true,
		Answer:     answer,
		Sources:    asm.Sources,
		Detail:     asm.Detail,
		Confidence: ret.Matches[0].Score,
		ChunksUsed: used,
		QueryType:  cls.Type,
		Timestamp:  time.Now(),
	}
}

func emptyAnswer(cls types.Classification, msg string) types.AnswerResult {
	return types.AnswerResult{
		Success:    false,
		Answer:     msg,
		Sources:    []string{},
		Confidence: 0.0,
		QueryType:  cls.Type,
		Timestamp:  time.Now(),
	}
}

func failedAnswer(cls types.Classification, msg string, err error) types.AnswerResult {
	return types.AnswerResult{
		Success:    false,
		Answer:     msg,
		Sources:    []string{},
		Confidence: 0.0,
		QueryType:  cls.Type,
		Timestamp:  time.Now(),
		Error:      err.Error(),
	}
}
