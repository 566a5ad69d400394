package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"condorag/extract"
	"condorag/loader/internal"
	"condorag/rag"
	"condorag/types"
)

// Service bulk-loads reference documents into the shared knowledge
// base. Files dropped into the source directory are extracted, chunked
// and indexed under the knowledge-base namespace; originals end up in
// the archive (or the bad directory when extraction fails).
type Service struct {
	logger   *slog.Logger
	pipeline *rag.Pipeline
	watcher  *internal.Watcher
}

func New(pipeline *rag.Pipeline, watcher *internal.Watcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:   logger,
		pipeline: pipeline,
		watcher:  watcher,
	}
}

// Run blocks until ctx is cancelled and every in-flight file has been
// handled or the shutdown grace period expires.
func (s *Service) Run(ctx context.Context) {
	fileChan := make(chan string, 10)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(fileChan)
		s.watcher.Watch(ctx, fileChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileChan {
			s.handle(ctx, path)
		}
	}()

	<-ctx.Done()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("loader stopped")
	case <-time.After(5 * time.Second):
		s.logger.Warn("timeout waiting for workers, forcing shutdown")
	}
}

func (s *Service) handle(ctx context.Context, path string) {
	defer s.watcher.Done(path)

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("read file", "path", path, "error", err)
		s.fail(path)
		return
	}

	filename := filepath.Base(path)
	text, err := extract.Text(filename, data)
	if err != nil {
		s.logger.Error("extract text", "path", path, "error", err)
		s.fail(path)
		return
	}

	doc := types.Document{
		Text:     text,
		Filename: filename,
		Tenant:   types.KnowledgeBase,
	}
	res := s.pipeline.IndexDocument(ctx, doc, rag.ByDocID{
		DocID: DocumentID(path),
		Extra: map[string]string{"origem": "carga_base_conhecimento"},
	})
	if !res.Success {
		s.logger.Error("index document", "path", path, "error", res.Error)
		s.fail(path)
		return
	}

	s.logger.Info("document loaded",
		"path", path,
		"doc_id", res.DocID,
		"chunks_created", res.ChunksCreated,
		"doc_type", res.DocType,
	)
	if err := s.watcher.MoveToArchive(path); err != nil {
		s.logger.Error("archive file", "path", path, "error", err)
	}
}

func (s *Service) fail(path string) {
	if err := s.watcher.MoveToBad(path); err != nil {
		s.logger.Error("quarantine file", "path", path, "error", err)
	}
}

// DocumentID derives a stable id from the file name, so re-dropping
// the same file overwrites its records instead of duplicating them.
func DocumentID(path string) string {
	name := strings.ToLower(filepath.Base(path))
	return "kb_" + uuid.NewMD5(uuid.NameSpaceURL, []byte(name)).String()
}
