package model

import (
	"errors"
	"fmt"

	"legal-doc-simplifier/internal/domain"

	"github.com/daulet/tokenizers"
	"github.com/pkoukk/tiktoken-go"
)

// GPT-Neo shares the GPT-2 byte-level BPE vocabulary
const gptNeoEncoding = "r50k_base"

// NewTokenizer builds the tokenizer named by the configuration
func NewTokenizer(cfg domain.Config) (domain.Tokenizer, error) {
	switch cfg.GetTokenizer() {
	case "", "tiktoken":
		tok, err := NewTiktokenTokenizer(gptNeoEncoding)
		if err != nil {
			return nil, err
		}
		return tok, nil
	case "huggingface":
		tok, err := NewHuggingFaceTokenizer(cfg.GetTokenizerFile())
		if err != nil {
			return nil, err
		}
		return tok, nil
	default:
		return nil, fmt.Errorf("%w: tokenizer %q", domain.ErrUnknownBackend, cfg.GetTokenizer())
	}
}

// TiktokenTokenizer encodes with a named BPE encoding
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

func (t *TiktokenTokenizer) Encode(text string) []int {
	// special tokens are treated as plain text, documents may contain them
	return t.enc.EncodeOrdinary(text)
}

func (t *TiktokenTokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}

func (t *TiktokenTokenizer) Close() error {
	return nil
}

// HuggingFaceTokenizer loads a pretrained tokenizer.json
type HuggingFaceTokenizer struct {
	tk *tokenizers.Tokenizer
}

func NewHuggingFaceTokenizer(path string) (*HuggingFaceTokenizer, error) {
	if path == "" {
		return nil, errors.New("TOKENIZER_FILE is required for the huggingface tokenizer")
	}
	tk, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from %s: %w", path, err)
	}
	return &HuggingFaceTokenizer{tk: tk}, nil
}

func (h *HuggingFaceTokenizer) Encode(text string) []int {
	ids, _ := h.tk.Encode(text, false)
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (h *HuggingFaceTokenizer) Decode(ids []int) string {
	in := make([]uint32, len(ids))
	for i, id := range ids {
		in[i] = uint32(id)
	}
	return h.tk.Decode(in, true)
}

func (h *HuggingFaceTokenizer) Close() error {
	return h.tk.Close()
}
