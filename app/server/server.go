package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"condorag/app/api"
	"condorag/model"
	"condorag/rag"
	"condorag/store"
	"condorag/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    50 * 1024 * 1024, // uploaded PDFs
}

type Server struct {
	listenAddr string
	cfg        types.Config
	logger     *slog.Logger

	app   *fiber.App
	close func()
}

func New(cfg types.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		listenAddr: cfg.ServerAddr,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run builds the pipeline with its provider clients bound and serves
// until Stop is called. The pipeline is constructed exactly once here
// and handed to the handlers explicitly.
func (s *Server) Run(ctx context.Context) error {
	vs, closeStore, err := newVectorStore(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	s.close = closeStore

	embedder := model.NewOpenAIEmbedder("", s.cfg.OpenAIKey, s.cfg.EmbeddingModel, s.cfg.ProviderTimeout)
	completer := model.NewOpenAICompleter("", s.cfg.OpenAIKey, s.cfg.CompletionModel, s.cfg.ProviderTimeout)

	pipeline := rag.New(embedder, completer, vs, rag.Options{
		ChunkSize:    s.cfg.ChunkSize,
		ChunkOverlap: s.cfg.ChunkOverlap,
	}, s.logger)

	var (
		app             = fiber.New(config)
		checkHandler    = api.NewCheckHandler()
		queryHandler    = api.NewQueryHandler(pipeline)
		documentHandler = api.NewDocumentHandler(pipeline)
		check           = app.Group("/check")
		apiv1           = app.Group("/api/v1")
	)
	s.app = app

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/query", queryHandler.HandleQuery)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Delete("/documents/:id", documentHandler.HandleDelete)
	apiv1.Post("/knowledge/upload", documentHandler.HandleKnowledgeUpload)

	s.logger.Info("server listening", "addr", s.listenAddr, "vector_backend", s.cfg.VectorBackend)
	return app.Listen(s.listenAddr)
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
	}
	if s.close != nil {
		s.close()
	}
	s.logger.Info("server stopped")
}

// newVectorStore picks the configured vector index backend. Both
// expose identical namespace semantics.
func newVectorStore(ctx context.Context, cfg types.Config) (store.VectorStorer, func(), error) {
	switch cfg.VectorBackend {
	case "pgvector":
		pg, err := store.NewPgvectorStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Init(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	case "pinecone", "":
		return store.NewPineconeStore(cfg.PineconeHost, cfg.PineconeKey, cfg.ProviderTimeout), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
