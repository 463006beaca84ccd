package model

import (
	"context"
	"fmt"

	"legal-doc-simplifier/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// repetition penalty standing in for no_repeat_ngram_size, which ollama lacks
const ollamaRepetitionPenalty = 1.3

type OllamaGenerator struct {
	llm    *ollama.LLM
	model  string
	logger domain.Logger
}

func NewOllamaGenerator(model, serverURL string, logger domain.Logger) (*OllamaGenerator, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaGenerator{llm: llm, model: model, logger: logger}, nil
}

func (o *OllamaGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	callOpts := []llms.CallOption{
		llms.WithMaxTokens(req.MaxNewTokens),
		llms.WithTemperature(0),
		llms.WithN(req.NumSequences),
	}
	if req.NoRepeatNgramSize > 0 {
		callOpts = append(callOpts, llms.WithRepetitionPenalty(ollamaRepetitionPenalty))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, o.llm, req.Prompt, callOpts...)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("Generation completed", "provider", "ollama", "model", o.model, "chars", len(text))
	return &domain.Generation{Text: text, PromptTokens: len(req.PromptTokens)}, nil
}

func (o *OllamaGenerator) Close() error {
	return nil
}
