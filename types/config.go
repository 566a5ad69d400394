package types

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the services read from the environment.
// Defaults match the reference deployment.
type Config struct {
	ServerAddr string

	OpenAIKey        string
	EmbeddingModel   string
	CompletionModel  string
	ProviderTimeout  time.Duration

	// Vector index backend: "pinecone" or "pgvector".
	VectorBackend string
	PineconeHost  string
	PineconeKey   string
	PostgresDSN   string

	ChunkSize    int
	ChunkOverlap int

	// Loader service.
	SourceDir  string
	ArchiveDir string
	BadDir     string
	PollEvery  time.Duration
	SettleTime time.Duration
}

// LoadConfig reads the environment. godotenv has already populated it
// from .env by the time this runs.
func LoadConfig() Config {
	return Config{
		ServerAddr: getenv("SERVER_ADDR", ":8080"),

		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:  getenv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		CompletionModel: getenv("COMPLETION_MODEL", "gpt-4o-mini"),
		ProviderTimeout: getdur("PROVIDER_TIMEOUT", 30*time.Second),

		VectorBackend: getenv("VECTOR_BACKEND", "pinecone"),
		PineconeHost:  os.Getenv("PINECONE_HOST"),
		PineconeKey:   os.Getenv("PINECONE_API_KEY"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),

		ChunkSize:    getint("CHUNK_SIZE", 800),
		ChunkOverlap: getint("CHUNK_OVERLAP", 200),

		SourceDir:  getenv("LOADER_SOURCE_DIR", "./kb/incoming"),
		ArchiveDir: getenv("LOADER_ARCHIVE_DIR", "./kb/archive"),
		BadDir:     getenv("LOADER_BAD_DIR", "./kb/bad"),
		PollEvery:  getdur("LOADER_POLL_INTERVAL", time.Second),
		SettleTime: getdur("LOADER_SETTLE_TIME", 3*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
