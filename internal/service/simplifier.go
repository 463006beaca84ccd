package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-doc-simplifier/internal/domain"
	apperrors "legal-doc-simplifier/pkg/errors"

	"golang.org/x/sync/semaphore"
)

// InstructionTemplate is prepended to every document before generation
const InstructionTemplate = "Simplify the following legal document into plain English and highlight key obligations, penalties, " +
	"or conditions:\n\n"

// PromptRemoval selects how the echoed prompt is removed from model output
type PromptRemoval string

const (
	// PromptRemovalEcho keeps the continuation, trimming an echoed prompt prefix
	PromptRemovalEcho PromptRemoval = "echo"
	// PromptRemovalFirstLine drops everything up to the first newline of prompt+output
	PromptRemovalFirstLine PromptRemoval = "first-line"
)

// SimplifyOptions bounds a single generation
type SimplifyOptions struct {
	MaxInputTokens    int
	MaxNewTokens      int
	NoRepeatNgramSize int
	PromptRemoval     PromptRemoval
	Timeout           time.Duration
	MaxConcurrent     int64
}

// DefaultSimplifyOptions mirrors the gpt-neo settings the tool was tuned with
func DefaultSimplifyOptions() SimplifyOptions {
	return SimplifyOptions{
		MaxInputTokens:    512,
		MaxNewTokens:      200,
		NoRepeatNgramSize: 2,
		PromptRemoval:     PromptRemovalEcho,
		Timeout:           120 * time.Second,
		MaxConcurrent:     1,
	}
}

// SimplifierService runs extraction, prompting and generation for one upload.
// The tokenizer and generator are shared read-only across requests.
type SimplifierService struct {
	extractor domain.TextExtractor
	tokenizer domain.Tokenizer
	generator domain.Generator
	logger    domain.Logger
	opts      SimplifyOptions
	sem       *semaphore.Weighted
}

func NewSimplifierService(
	extractor domain.TextExtractor,
	tokenizer domain.Tokenizer,
	generator domain.Generator,
	logger domain.Logger,
	opts SimplifyOptions,
) (*SimplifierService, error) {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	switch opts.PromptRemoval {
	case "":
		opts.PromptRemoval = PromptRemovalEcho
	case PromptRemovalEcho, PromptRemovalFirstLine:
	default:
		return nil, fmt.Errorf("%w: prompt removal %q", domain.ErrUnknownBackend, opts.PromptRemoval)
	}
	return &SimplifierService{
		extractor: extractor,
		tokenizer: tokenizer,
		generator: generator,
		logger:    logger,
		opts:      opts,
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
	}, nil
}

// Simplify extracts the uploaded PDF and returns the model's plain-English
// continuation. Errors are *apperrors.AppError of a closed set of types.
// An empty upload goes to the extractor and fails there.
func (s *SimplifierService) Simplify(ctx context.Context, file *domain.UploadedFile) (*domain.SimplifiedDocument, error) {
	if file == nil {
		return nil, apperrors.NewValidationError("File is required")
	}

	extracted, err := s.extractor.Extract(file.Data)
	if err != nil {
		return nil, err
	}

	text, prompt, err := s.generate(ctx, extracted.Content)
	if err != nil {
		return nil, apperrors.NewGenerationError(err)
	}

	return &domain.SimplifiedDocument{
		Text:      text,
		PageCount: extracted.PageCount,
		Truncated: prompt.Truncated,
	}, nil
}

func (s *SimplifierService) generate(ctx context.Context, documentText string) (text string, prompt *domain.Prompt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	prompt = s.BuildPrompt(documentText)
	if prompt.Truncated {
		s.logger.Warn("Prompt truncated to input token budget",
			"original_tokens", prompt.OriginalTokens,
			"kept_tokens", len(prompt.Tokens),
			"max_input_tokens", s.opts.MaxInputTokens,
		)
	}

	if err = s.sem.Acquire(ctx, 1); err != nil {
		return "", prompt, err
	}
	defer s.sem.Release(1)

	genCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	gen, err := s.generator.Generate(genCtx, domain.GenerationRequest{
		Prompt:            prompt.Text,
		PromptTokens:      prompt.Tokens,
		MaxNewTokens:      s.opts.MaxNewTokens,
		NumSequences:      1,
		NoRepeatNgramSize: s.opts.NoRepeatNgramSize,
	})
	if err != nil {
		return "", prompt, err
	}

	text = RemovePrompt(s.opts.PromptRemoval, prompt.Text, gen.Text)
	if strings.TrimSpace(text) == "" {
		return "", prompt, domain.ErrEmptyGeneration
	}

	s.logger.Info("Document simplified",
		"prompt_tokens", len(prompt.Tokens),
		"output_chars", len(text),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return text, prompt, nil
}

// BuildPrompt prepends the instruction template and applies hard truncation
// to the input token budget. The template counts against the budget.
func (s *SimplifierService) BuildPrompt(documentText string) *domain.Prompt {
	full := InstructionTemplate + documentText
	ids := s.tokenizer.Encode(full)

	prompt := &domain.Prompt{
		Text:           full,
		Tokens:         ids,
		OriginalTokens: len(ids),
	}
	if s.opts.MaxInputTokens > 0 && len(ids) > s.opts.MaxInputTokens {
		prompt.Tokens = ids[:s.opts.MaxInputTokens]
		prompt.Text = s.tokenizer.Decode(prompt.Tokens)
		prompt.Truncated = true
	}
	return prompt
}

// RemovePrompt strips the prompt from generated text.
//
// With PromptRemovalEcho the output is expected to be a continuation; a
// leading copy of the prompt is removed exactly. PromptRemovalFirstLine
// reproduces decoding prompt+continuation and dropping the first line.
func RemovePrompt(mode PromptRemoval, prompt, output string) string {
	switch mode {
	case PromptRemovalFirstLine:
		full := output
		if !strings.HasPrefix(output, prompt) {
			full = prompt + output
		}
		parts := strings.SplitN(full, "\n", 2)
		return parts[len(parts)-1]
	default:
		return strings.TrimSpace(strings.TrimPrefix(output, prompt))
	}
}
