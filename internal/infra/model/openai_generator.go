package model

import (
	"context"
	"errors"

	"legal-doc-simplifier/internal/domain"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator uses the legacy completions endpoint of an
// OpenAI-compatible server, sending the truncated prompt as token ids.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger domain.Logger
}

func NewOpenAIGenerator(model, baseURL, apiKey string, logger domain.Logger, extra ...option.RequestOption) (*OpenAIGenerator, error) {
	if model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(o.model),
		MaxTokens:   openai.Int(int64(req.MaxNewTokens)),
		N:           openai.Int(int64(req.NumSequences)),
		Temperature: openai.Float(0),
	}
	if len(req.PromptTokens) > 0 {
		tokens := make([]int64, len(req.PromptTokens))
		for i, id := range req.PromptTokens {
			tokens[i] = int64(id)
		}
		params.Prompt = openai.CompletionNewParamsPromptUnion{OfArrayOfTokens: tokens}
	} else {
		params.Prompt = openai.CompletionNewParamsPromptUnion{OfString: openai.String(req.Prompt)}
	}

	var reqOpts []option.RequestOption
	if req.NoRepeatNgramSize > 0 {
		// not part of the OpenAI schema, honored by vLLM-style servers
		reqOpts = append(reqOpts, option.WithJSONSet("no_repeat_ngram_size", req.NoRepeatNgramSize))
	}

	resp, err := o.client.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, domain.ErrEmptyGeneration
	}

	o.logger.Debug("Generation completed", "provider", "openai", "model", o.model, "completion_tokens", resp.Usage.CompletionTokens)

	return &domain.Generation{
		Text:         resp.Choices[0].Text,
		PromptTokens: int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (o *OpenAIGenerator) Close() error {
	return nil
}
