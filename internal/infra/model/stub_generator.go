package model

import (
	"context"
	"fmt"
	"strings"

	"legal-doc-simplifier/internal/domain"
)

// StubGenerator is an offline stand-in for local runs, it never calls a model
type StubGenerator struct{}

func (StubGenerator) Generate(_ context.Context, req domain.GenerationRequest) (*domain.Generation, error) {
	body := req.Prompt
	if i := strings.Index(body, "\n\n"); i >= 0 {
		body = body[i+2:]
	}
	words := strings.Fields(body)

	var sb strings.Builder
	sb.WriteString("Plain English summary (offline stub).\n")
	sb.WriteString(fmt.Sprintf("The document has about %d words.", len(words)))
	if len(words) > 0 {
		preview := words
		if len(preview) > 12 {
			preview = preview[:12]
		}
		sb.WriteString(" It begins: \"")
		sb.WriteString(strings.Join(preview, " "))
		sb.WriteString("\"")
	}
	return &domain.Generation{Text: sb.String(), PromptTokens: len(req.PromptTokens)}, nil
}

func (StubGenerator) Close() error {
	return nil
}
