package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Corpus      CorpusConfig     `toml:"corpus"`
	Chunking    ChunkingConfig   `toml:"chunking"`
	Embedding   EmbeddingConfig  `toml:"embedding"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Knowledge   KnowledgeConfig  `toml:"knowledge"`
	Processing  ProcessingConfig `toml:"processing"`
	Logging     LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// CorpusConfig describes the source document tree and ingestion outputs
type CorpusConfig struct {
	Dir          string `toml:"dir"`           // Root directory of category-organized source documents
	ManifestPath string `toml:"manifest_path"` // Chunk metadata JSON written once per ingestion run
	Collection   string `toml:"collection"`    // Vector store collection name
}

// ChunkingConfig holds chunker sizing parameters, in approximate tokens
// (4 characters per token)
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	Overlap      int `toml:"overlap"`
	MinChunkSize int `toml:"min_chunk_size"`
}

// EmbeddingConfig configures the embedding service
type EmbeddingConfig struct {
	BatchSize      int    `toml:"batch_size"`      // Texts per encoder batch
	Dimension      int    `toml:"dimension"`       // Fixed vector dimension, must match the collection
	ExpandAcronyms bool   `toml:"expand_acronyms"` // Expand domain acronyms before encoding
	AcronymsFile   string `toml:"acronyms_file"`   // Optional YAML file overriding the built-in acronym table
}

// GeminiConfig contains Google Gemini API configuration for the encoder
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`
	EmbedModel string `toml:"embed_model"` // Embedding model name (default: "gemini-embedding-001")
	RateLimit  string `toml:"rate_limit"`  // Minimum interval between API calls, duration string
	Timeout    string `toml:"timeout"`     // Per-call timeout, duration string
}

// KnowledgeConfig configures retrieval behavior
type KnowledgeConfig struct {
	Mode              string  `toml:"mode"`               // "vector", "curated", or "auto" (vector with curated fallback)
	TopK              int     `toml:"top_k"`              // Candidate chunks per query
	DistanceThreshold float64 `toml:"distance_threshold"` // Max distance for context inclusion
	ContextLimit      int     `toml:"context_limit"`      // Max chunks assembled into the answer context
	MaxSources        int     `toml:"max_sources"`        // Max deduplicated sources returned
}

// ProcessingConfig schedules background corpus refresh
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the built-in defaults, before file and env overrides
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/luna.db",
				ResetOnStartup: false,
			},
		},
		Corpus: CorpusConfig{
			Dir:          "./docs/corpus",
			ManifestPath: "./data/chunks.json",
			Collection:   "luna_knowledge",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    700,
			Overlap:      50,
			MinChunkSize: 100,
		},
		Embedding: EmbeddingConfig{
			BatchSize:      32,
			Dimension:      768,
			ExpandAcronyms: true,
		},
		Gemini: GeminiConfig{
			EmbedModel: "gemini-embedding-001",
			RateLimit:  "4s", // Free tier is 15 RPM
			Timeout:    "1m",
		},
		Knowledge: KnowledgeConfig{
			Mode:              "auto",
			TopK:              5,
			DistanceThreshold: 1.5,
			ContextLimit:      3,
			MaxSources:        5,
		},
		Processing: ProcessingConfig{
			Enabled:  false,
			Schedule: "0 3 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier ones. Priority: env > last file > ... > first file > defaults
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LUNA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LUNA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LUNA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("LUNA_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if reset := os.Getenv("LUNA_BADGER_RESET_ON_STARTUP"); reset != "" {
		if r, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = r
		}
	}

	if dir := os.Getenv("LUNA_CORPUS_DIR"); dir != "" {
		config.Corpus.Dir = dir
	}
	if manifest := os.Getenv("LUNA_CORPUS_MANIFEST_PATH"); manifest != "" {
		config.Corpus.ManifestPath = manifest
	}
	if collection := os.Getenv("LUNA_CORPUS_COLLECTION"); collection != "" {
		config.Corpus.Collection = collection
	}

	if apiKey := os.Getenv("LUNA_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("LUNA_GEMINI_EMBED_MODEL"); model != "" {
		config.Gemini.EmbedModel = model
	}
	if rateLimit := os.Getenv("LUNA_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}

	if dim := os.Getenv("LUNA_EMBEDDING_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Embedding.Dimension = d
		}
	}

	if mode := os.Getenv("LUNA_KNOWLEDGE_MODE"); mode != "" {
		config.Knowledge.Mode = mode
	}

	if level := os.Getenv("LUNA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have the highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
