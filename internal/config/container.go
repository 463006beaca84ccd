package config

import (
	"context"
	"errors"
	"fmt"

	"legal-doc-simplifier/internal/domain"
	"legal-doc-simplifier/internal/infra/model"
	"legal-doc-simplifier/internal/service"
	"legal-doc-simplifier/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config     domain.Config
	Logger     domain.Logger
	Extractor  domain.TextExtractor
	Tokenizer  domain.Tokenizer
	Generator  domain.Generator
	Simplifier domain.Simplifier
}

// NewContainer creates a new dependency injection container.
// The tokenizer and generator are built once and shared by all requests.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := NewConfig()
	return NewContainerWithConfig(ctx, cfg, logger.NewLogger(cfg.GetLogLevel()))
}

// NewContainerWithConfig wires the services from an explicit config and logger
func NewContainerWithConfig(ctx context.Context, cfg domain.Config, appLogger domain.Logger) (*Container, error) {
	extractor, err := service.NewPDFProcessor(cfg.GetPDFBackend(), appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF processor: %w", err)
	}

	tokenizer, err := model.NewTokenizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	generator, err := model.NewGenerator(ctx, cfg, appLogger)
	if err != nil {
		_ = tokenizer.Close()
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	simplifier, err := service.NewSimplifierService(extractor, tokenizer, generator, appLogger, service.SimplifyOptions{
		MaxInputTokens:    cfg.GetMaxInputTokens(),
		MaxNewTokens:      cfg.GetMaxNewTokens(),
		NoRepeatNgramSize: cfg.GetNoRepeatNgramSize(),
		PromptRemoval:     service.PromptRemoval(cfg.GetPromptRemoval()),
		Timeout:           cfg.GetGenerationTimeout(),
		MaxConcurrent:     cfg.GetMaxConcurrentGenerations(),
	})
	if err != nil {
		_ = generator.Close()
		_ = tokenizer.Close()
		return nil, fmt.Errorf("failed to create simplifier: %w", err)
	}

	appLogger.Info("Services initialized",
		"pdf_backend", string(cfg.GetPDFBackend()),
		"tokenizer", cfg.GetTokenizer(),
		"model_provider", cfg.GetModelProvider(),
		"model", cfg.GetModelName(),
	)

	return &Container{
		Config:     cfg,
		Logger:     appLogger,
		Extractor:  extractor,
		Tokenizer:  tokenizer,
		Generator:  generator,
		Simplifier: simplifier,
	}, nil
}

// Close releases the model resources and flushes the logger
func (c *Container) Close() error {
	var errs []error
	if c.Generator != nil {
		if err := c.Generator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close generator: %w", err))
		}
	}
	if c.Tokenizer != nil {
		if err := c.Tokenizer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tokenizer: %w", err))
		}
	}
	if s, ok := c.Logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return errors.Join(errs...)
}
