package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"condorag/loader/internal"
	"condorag/loader/service"
	"condorag/model"
	"condorag/rag"
	"condorag/store"
	"condorag/types"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := types.LoadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vs, closeStore, err := newVectorStore(ctx, cfg)
	if err != nil {
		log.Fatal("vector store: ", err)
	}
	defer closeStore()

	embedder := model.NewOpenAIEmbedder("", cfg.OpenAIKey, cfg.EmbeddingModel, cfg.ProviderTimeout)
	completer := model.NewOpenAICompleter("", cfg.OpenAIKey, cfg.CompletionModel, cfg.ProviderTimeout)
	pipeline := rag.New(embedder, completer, vs, rag.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	}, logger)

	watcher, err := internal.NewWatcher(cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir, cfg.PollEvery, cfg.SettleTime, logger)
	if err != nil {
		log.Fatal("watcher: ", err)
	}

	go func() {
		sigch := make(chan os.Signal, 1)
		signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
		<-sigch
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	service.New(pipeline, watcher, logger).Run(ctx)
}

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
	default:
		return store.NewPineconeStore(cfg.PineconeHost, cfg.PineconeKey, cfg.ProviderTimeout), func() {}, nil
	}
}

func mustLoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
}
