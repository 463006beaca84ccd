// Package model holds the pretrained tokenizer and the generation backends.
package model

import (
	"context"
	"fmt"

	"legal-doc-simplifier/internal/domain"
)

// NewGenerator builds the generator named by MODEL_PROVIDER
func NewGenerator(ctx context.Context, cfg domain.Config, logger domain.Logger) (domain.Generator, error) {
	var (
		gen domain.Generator
		err error
	)

	switch cfg.GetModelProvider() {
	case "", "huggingface":
		var g *HuggingFaceGenerator
		g, err = NewHuggingFaceGenerator(cfg.GetModelEndpoint(), cfg.GetModelAPIKey(), logger)
		gen = g
	case "openai":
		var g *OpenAIGenerator
		g, err = NewOpenAIGenerator(cfg.GetModelName(), cfg.GetModelEndpoint(), cfg.GetModelAPIKey(), logger)
		gen = g
	case "vertex":
		var g *VertexGenerator
		g, err = NewVertexGenerator(ctx, cfg.GetVertexProjectID(), cfg.GetVertexLocation(), cfg.GetModelName(), logger)
		gen = g
	case "ollama":
		var g *OllamaGenerator
		g, err = NewOllamaGenerator(cfg.GetModelName(), cfg.GetModelEndpoint(), logger)
		gen = g
	case "stub":
		return StubGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: model provider %q", domain.ErrUnknownBackend, cfg.GetModelProvider())
	}

	if err != nil {
		return nil, err
	}
	return gen, nil
}
