package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legal-doc-simplifier/internal/domain"
)

// HuggingFaceGenerator calls a text-generation endpoint in the Hugging Face
// Inference API / TGI request format.
type HuggingFaceGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   domain.Logger
}

func NewHuggingFaceGenerator(endpoint, apiKey string, logger domain.Logger) (*HuggingFaceGenerator, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("MODEL_ENDPOINT is required for the huggingface provider")
	}
	return &HuggingFaceGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		// per-call deadlines come from the request context
		client: &http.Client{Timeout: 10 * time.Minute},
		logger: logger,
	}, nil
}

type hfParameters struct {
	MaxNewTokens       int  `json:"max_new_tokens"`
	NumReturnSequences int  `json:"num_return_sequences"`
	NoRepeatNgramSize  int  `json:"no_repeat_ngram_size,omitempty"`
	DoSample           bool `json:"do_sample"`
	ReturnFullText     bool `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfSequence struct {
	GeneratedText string `json:"generated_text"`
}

func (g *HuggingFaceGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			MaxNewTokens:       req.MaxNewTokens,
			NumReturnSequences: req.NumSequences,
			NoRepeatNgramSize:  req.NoRepeatNgramSize,
			DoSample:           false,
			ReturnFullText:     false,
		},
		Options: hfOptions{WaitForModel: true, UseCache: false},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	seqs, err := decodeHFSequences(raw)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, domain.ErrEmptyGeneration
	}

	g.logger.Debug("Generation completed", "provider", "huggingface", "chars", len(seqs[0].GeneratedText))

	return &domain.Generation{
		Text:         seqs[0].GeneratedText,
		PromptTokens: len(req.PromptTokens),
	}, nil
}

// decodeHFSequences accepts both the Inference API list and the single TGI object
func decodeHFSequences(raw []byte) ([]hfSequence, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var one hfSequence
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return []hfSequence{one}, nil
	}
	var many []hfSequence
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return many, nil
}

func (g *HuggingFaceGenerator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
