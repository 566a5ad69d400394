package rag

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"condorag/store"
	"condorag/types"
)

// Retrieval is the merged, filtered, ranked search result of one query.
type Retrieval struct {
	Matches []store.Match
	// Raw counts unique matches before threshold filtering, so the
	// caller can tell "nothing found" from "nothing relevant enough".
	Raw int
}

// retrieve runs every expanded query against the tenant namespace and
// the shared knowledge base concurrently, then merges under a single
// ordering pass: tenant matches come first per query so id collisions
// keep the tenant-sourced copy, tenant scores carry the priority boost,
// and everything below the threshold is dropped before ranking.
func (p *Pipeline) retrieve(ctx context.Context, queries []string, tenant types.Tenant) (Retrieval, error) {
	tenantNS := tenant.Namespace()
	searchTenant := tenantNS != types.KnowledgeBaseNamespace

	type nsResults struct {
		tenant []store.Match
		kb     []store.Match
	}
	results := make([]nsResults, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			vec, err := p.embedder.Embed(gctx, q)
			if err != nil {
				return fmt.Errorf("embed query %q: %w", q, err)
			}

			sub, sctx := errgroup.WithContext(gctx)
			if searchTenant {
				sub.Go(func() error {
					m, err := p.store.Query(sctx, vec, p.opts.TopK, tenantNS)
					if err != nil {
						return fmt.Errorf("search %s: %w", tenantNS, err)
					}
					results[i].tenant = m
					return nil
				})
			}
			sub.Go(func() error {
				m, err := p.store.Query(sctx, vec, p.opts.TopK, types.KnowledgeBaseNamespace)
				if err != nil {
					return fmt.Errorf("search knowledge base: %w", err)
				}
				results[i].kb = m
				return nil
			})
			return sub.Wait()
		})
	}
	if err := g.Wait(); err != nil {
		return Retrieval{}, err
	}

	seen := make(map[string]bool)
	var merged []store.Match
	for _, r := range results {
		for _, m := range r.tenant {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			m.Score *= p.opts.TenantBoost
			merged = append(merged, m)
		}
		for _, m := range r.kb {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}

	kept := merged[:0]
	for _, m := range merged {
		if m.Score > p.opts.ScoreThreshold {
			kept = append(kept, m)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if len(kept) > p.opts.MaxMatches {
		kept = kept[:p.opts.MaxMatches]
	}

	return Retrieval{Matches: kept, Raw: len(seen)}, nil
}
