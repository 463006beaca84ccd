package model

import (
	"context"
	"fmt"
	"strings"

	"legal-doc-simplifier/internal/domain"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

type VertexGenerator struct {
	genaiClient *genai.Client
	modelName   string
	logger      domain.Logger
}

func NewVertexGenerator(ctx context.Context, projectID, location, modelName string, logger domain.Logger, opts ...option.ClientOption) (*VertexGenerator, error) {
	if projectID == "" {
		return nil, fmt.Errorf("VERTEX_PROJECT_ID is required for the vertex provider")
	}
	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &VertexGenerator{
		genaiClient: client,
		modelName:   modelName,
		logger:      logger,
	}, nil
}

func (v *VertexGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	model := v.genaiClient.GenerativeModel(v.modelName)
	applyGenerationConfig(&model.GenerationConfig, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, domain.ErrEmptyGeneration
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	gen := &domain.Generation{Text: sb.String()}
	if resp.UsageMetadata != nil {
		gen.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		gen.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	v.logger.Debug("Generation completed", "provider", "vertex", "model", v.modelName, "output_tokens", gen.OutputTokens)
	return gen, nil
}

// applyGenerationConfig sets greedy decoding with the request's output budget
func applyGenerationConfig(cfg *genai.GenerationConfig, req domain.GenerationRequest) {
	candidates := req.NumSequences
	if candidates <= 0 {
		candidates = 1
	}
	cfg.SetTemperature(0)
	cfg.SetCandidateCount(int32(candidates))
	if req.MaxNewTokens > 0 {
		cfg.SetMaxOutputTokens(int32(req.MaxNewTokens))
	}
}

func (v *VertexGenerator) Close() error {
	return v.genaiClient.Close()
}
