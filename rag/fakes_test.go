package rag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"condorag/store"
)

// fakeEmbedder returns a fixed vector and counts calls.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeCompleter returns a canned answer and captures the prompts.
type fakeCompleter struct {
	answer string
	err    error

	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, _ int, _ float32) (string, error) {
	f.system = system
	f.user = user
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeStore is an in-memory VectorStorer with canned query results
// per namespace and error injection for the fetch path.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]map[string]store.Record

	queryResults map[string][]store.Match
	queriedNS    []string

	fetchErr  error
	upsertErr error
	upserts   int
	deleted   map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:      make(map[string]map[string]store.Record),
		queryResults: make(map[string][]store.Match),
		deleted:      make(map[string][]string),
	}
}

func (f *fakeStore) FetchByID(_ context.Context, ids []string, namespace string) (map[string]store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make(map[string]store.Record)
	for _, id := range ids {
		if rec, ok := f.records[namespace][id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(_ context.Context, records []store.Record, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	ns := f.records[namespace]
	if ns == nil {
		ns = make(map[string]store.Record)
		f.records[namespace] = ns
	}
	for _, r := range records {
		ns[r.ID] = r
	}
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ []float32, _ int, namespace string) ([]store.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queriedNS = append(f.queriedNS, namespace)
	return f.queryResults[namespace], nil
}

func (f *fakeStore) Delete(_ context.Context, ids []string, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[namespace] = append(f.deleted[namespace], ids...)
	return nil
}

func (f *fakeStore) count(namespace string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[namespace])
}

func (f *fakeStore) namespaces() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queriedNS...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(fe *fakeEmbedder, fc *fakeCompleter, fs *fakeStore, opts Options) *Pipeline {
	return New(fe, fc, fs, opts, testLogger())
}

// match is a test shorthand for a scored result with full text.
func match(id string, score float64, sindico, condo int, filename, text string) store.Match {
	m := store.Match{ID: id, Score: score}
	m.Metadata.Filename = filename
	m.Metadata.FullText = text
	m.Metadata.SindicoID = sindico
	m.Metadata.CondoID = condo
	if text == "" {
		m.Metadata.FullText = fmt.Sprintf("conteúdo de %s", id)
	}
	return m
}
