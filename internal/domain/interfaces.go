package domain

import (
	"context"
	"time"
)

// TextExtractor turns PDF bytes into plain text
type TextExtractor interface {
	Extract(data []byte) (*ExtractedText, error)
}

// PageSource yields the text of a document one page at a time
type PageSource interface {
	NumPages() int
	PageText(index int) (string, error)
	Close() error
}

// Tokenizer converts between text and model token ids
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
	Close() error
}

// Generator runs a pretrained language model once per request
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*Generation, error)
	Close() error
}

// Simplifier defines the extraction -> prompt -> generation pipeline
type Simplifier interface {
	Simplify(ctx context.Context, file *UploadedFile) (*SimplifiedDocument, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetPDFBackend() PDFBackend
	GetTokenizer() string
	GetTokenizerFile() string
	GetModelProvider() string
	GetModelName() string
	GetModelEndpoint() string
	GetModelAPIKey() string
	GetVertexProjectID() string
	GetVertexLocation() string
	GetMaxInputTokens() int
	GetMaxNewTokens() int
	GetNoRepeatNgramSize() int
	GetPromptRemoval() string
	GetGenerationTimeout() time.Duration
	GetMaxConcurrentGenerations() int64
}
