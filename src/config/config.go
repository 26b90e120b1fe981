// Package config resolves all runtime settings once at startup into an
// immutable Config value. Components receive the struct explicitly and never
// read process environment on their own.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// OpenAI holds chat and embedding provider settings.
type OpenAI struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float64
}

// LangSmith holds experiment-tracking service settings.
type LangSmith struct {
	APIKey   string
	Endpoint string
	Project  string
	Tracing  bool
}

// Ingest holds document splitting settings.
type Ingest struct {
	ChunkSize    int
	ChunkOverlap int
}

// Retriever holds similarity search settings.
type Retriever struct {
	TopK int
}

// Dataset holds evaluation dataset and experiment naming.
type Dataset struct {
	Name             string
	ExperimentPrefix string
	MetadataVersion  string
}

// Config is the resolved application configuration.
type Config struct {
	LogMode   string
	OpenAI    OpenAI
	LangSmith LangSmith
	Ingest    Ingest
	Retriever Retriever
	Dataset   Dataset
}

// BindDefaults maps environment variables to viper keys and sets defaults.
func BindDefaults() {
	viper.AutomaticEnv()

	// Map environment variables to viper keys for the OpenAI-compatible API
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.base_url", "OPENAI_API_BASE_URL")
	viper.BindEnv("openai.chat_model", "OPENAI_CHAT_MODEL")
	viper.BindEnv("openai.embedding_model", "OPENAI_EMBEDDING_MODEL")
	viper.BindEnv("openai.temperature", "OPENAI_TEMPERATURE")

	// Map environment variables to viper keys for LangSmith
	viper.BindEnv("langsmith.api_key", "LANGSMITH_API_KEY")
	viper.BindEnv("langsmith.endpoint", "LANGSMITH_ENDPOINT")
	viper.BindEnv("langsmith.project", "LANGSMITH_PROJECT")
	viper.BindEnv("langsmith.tracing", "LANGSMITH_TRACING")
	viper.BindEnv("dataset.name", "LANGSMITH_DATASET")

	// Map environment variables to viper keys for ingestion and retrieval
	viper.BindEnv("ingest.chunk_size", "RAG_CHUNK_SIZE")
	viper.BindEnv("ingest.chunk_overlap", "RAG_CHUNK_OVERLAP")
	viper.BindEnv("retriever.top_k", "RAG_TOP_K")

	viper.BindEnv("log.mode", "LOG_MODE")

	// Set default values for the OpenAI-compatible API
	viper.SetDefault("openai.chat_model", "gpt-4o")
	viper.SetDefault("openai.embedding_model", "text-embedding-ada-002")
	viper.SetDefault("openai.temperature", 0.001)

	// Set default values for LangSmith
	viper.SetDefault("langsmith.endpoint", "https://api.smith.langchain.com")
	viper.SetDefault("langsmith.project", "genai-labs-tracing-project")
	viper.SetDefault("langsmith.tracing", false)
	viper.SetDefault("dataset.name", "LessWrong Mech Interp Blogs Q&A")
	viper.SetDefault("dataset.experiment_prefix", "genai-labs-experiment")
	viper.SetDefault("dataset.metadata_version", "LCEL context, gpt-4-0125-preview")

	// Set default values for ingestion and retrieval
	viper.SetDefault("ingest.chunk_size", 250)
	viper.SetDefault("ingest.chunk_overlap", 0)
	viper.SetDefault("retriever.top_k", 6)

	viper.SetDefault("log.mode", "development")
}

// LoadEnvFile promotes variables from a dotenv file into the process
// environment. A missing file is not an error; credentials may come from the
// environment directly.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// FromViper snapshots the currently bound viper state into a Config.
func FromViper() *Config {
	return &Config{
		LogMode: viper.GetString("log.mode"),
		OpenAI: OpenAI{
			APIKey:         viper.GetString("openai.api_key"),
			BaseURL:        viper.GetString("openai.base_url"),
			ChatModel:      viper.GetString("openai.chat_model"),
			EmbeddingModel: viper.GetString("openai.embedding_model"),
			Temperature:    viper.GetFloat64("openai.temperature"),
		},
		LangSmith: LangSmith{
			APIKey:   viper.GetString("langsmith.api_key"),
			Endpoint: viper.GetString("langsmith.endpoint"),
			Project:  viper.GetString("langsmith.project"),
			Tracing:  viper.GetBool("langsmith.tracing"),
		},
		Ingest: Ingest{
			ChunkSize:    viper.GetInt("ingest.chunk_size"),
			ChunkOverlap: viper.GetInt("ingest.chunk_overlap"),
		},
		Retriever: Retriever{
			TopK: viper.GetInt("retriever.top_k"),
		},
		Dataset: Dataset{
			Name:             viper.GetString("dataset.name"),
			ExperimentPrefix: viper.GetString("dataset.experiment_prefix"),
			MetadataVersion:  viper.GetString("dataset.metadata_version"),
		},
	}
}

// Load resolves the full configuration: dotenv promotion, env binding with
// defaults, then a snapshot into an immutable struct.
func Load(envPath string) (*Config, error) {
	if err := LoadEnvFile(envPath); err != nil {
		return nil, err
	}
	BindDefaults()
	return FromViper(), nil
}
