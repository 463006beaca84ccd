package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"legal-doc-simplifier/internal/domain"
)

const defaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/"

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort  string
	MaxFileSize int64
	LogLevel    string

	PDFBackend domain.PDFBackend

	Tokenizer     string
	TokenizerFile string

	ModelProvider   string
	ModelName       string
	ModelEndpoint   string
	ModelAPIKey     string
	VertexProjectID string
	VertexLocation  string

	MaxInputTokens           int
	MaxNewTokens             int
	NoRepeatNgramSize        int
	PromptRemoval            string
	GenerationTimeout        time.Duration
	MaxConcurrentGenerations int64
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	modelName := getEnvOrDefault("MODEL_NAME", "EleutherAI/gpt-neo-1.3B")
	provider := strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", "huggingface"))
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		PDFBackend: domain.PDFBackend(strings.ToLower(getEnvOrDefault("PDF_BACKEND", string(domain.PDFBackendLedongthuc)))),

		Tokenizer:     strings.ToLower(getEnvOrDefault("TOKENIZER", "tiktoken")),
		TokenizerFile: getEnvOrDefault("TOKENIZER_FILE", ""),

		ModelProvider:   provider,
		ModelName:       modelName,
		ModelEndpoint:   getEnvOrDefault("MODEL_ENDPOINT", defaultModelEndpoint(provider, modelName)),
		ModelAPIKey:     getEnvOrDefault("MODEL_API_KEY", ""),
		VertexProjectID: getEnvOrDefault("VERTEX_PROJECT_ID", ""),
		VertexLocation:  getEnvOrDefault("VERTEX_LOCATION", "us-central1"),

		MaxInputTokens:           getEnvIntOrDefault("MAX_INPUT_TOKENS", 512),
		MaxNewTokens:             getEnvIntOrDefault("MAX_NEW_TOKENS", 200),
		NoRepeatNgramSize:        getEnvIntOrDefault("NO_REPEAT_NGRAM_SIZE", 2),
		PromptRemoval:            strings.ToLower(getEnvOrDefault("PROMPT_REMOVAL", "echo")),
		GenerationTimeout:        getEnvDurationOrDefault("GENERATION_TIMEOUT", 120*time.Second),
		MaxConcurrentGenerations: getEnvInt64OrDefault("MAX_CONCURRENT_GENERATIONS", 1),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetPDFBackend returns the PDF extraction backend
func (c *AppConfig) GetPDFBackend() domain.PDFBackend {
	return c.PDFBackend
}

// GetTokenizer returns the tokenizer implementation name
func (c *AppConfig) GetTokenizer() string {
	return c.Tokenizer
}

// GetTokenizerFile returns the path of a tokenizer.json file
func (c *AppConfig) GetTokenizerFile() string {
	return c.TokenizerFile
}

// GetModelProvider returns the generator backend name
func (c *AppConfig) GetModelProvider() string {
	return c.ModelProvider
}

// GetModelName returns the pretrained model identifier
func (c *AppConfig) GetModelName() string {
	return c.ModelName
}

// GetModelEndpoint returns the model server URL
func (c *AppConfig) GetModelEndpoint() string {
	return c.ModelEndpoint
}

// GetModelAPIKey returns the model server credential
func (c *AppConfig) GetModelAPIKey() string {
	return c.ModelAPIKey
}

// GetVertexProjectID returns the Google Cloud project for Vertex AI
func (c *AppConfig) GetVertexProjectID() string {
	return c.VertexProjectID
}

// GetVertexLocation returns the Vertex AI region
func (c *AppConfig) GetVertexLocation() string {
	return c.VertexLocation
}

func (c *AppConfig) GetMaxInputTokens() int {
	return c.MaxInputTokens
}

func (c *AppConfig) GetMaxNewTokens() int {
	return c.MaxNewTokens
}

func (c *AppConfig) GetNoRepeatNgramSize() int {
	return c.NoRepeatNgramSize
}

// GetPromptRemoval returns "echo" or "first-line"
func (c *AppConfig) GetPromptRemoval() string {
	return c.PromptRemoval
}

// GetGenerationTimeout returns the per-call bound, zero means none
func (c *AppConfig) GetGenerationTimeout() time.Duration {
	return c.GenerationTimeout
}

func (c *AppConfig) GetMaxConcurrentGenerations() int64 {
	return c.MaxConcurrentGenerations
}

// defaultModelEndpoint points the huggingface provider at the hosted
// inference API; the other SDKs fall back to their own defaults.
func defaultModelEndpoint(provider, modelName string) string {
	if provider == "huggingface" {
		return defaultHuggingFaceEndpoint + modelName
	}
	return ""
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
