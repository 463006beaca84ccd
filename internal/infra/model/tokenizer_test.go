package model

import (
	"testing"
)

// r50k_base id of <|endoftext|>
const endOfTextID = 50256

func TestTiktokenTokenizer_RoundTrip(t *testing.T) {
	tok, err := NewTiktokenTokenizer(gptNeoEncoding)
	if err != nil {
		t.Skipf("r50k_base encoding unavailable: %v", err)
	}
	defer tok.Close()

	text := "The Lessee shall pay rent <|endoftext|> within 30 days."
	ids := tok.Encode(text)
	if len(ids) == 0 {
		t.Fatalf("expected tokens for %q", text)
	}
	for _, id := range ids {
		if id == endOfTextID {
			t.Fatalf("special token was not encoded as plain text: %v", ids)
		}
	}
	if got := tok.Decode(ids); got != text {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestNewTokenizer_DefaultsToTiktoken(t *testing.T) {
	tok, err := NewTokenizer(stubConfig{})
	if err != nil {
		t.Skipf("r50k_base encoding unavailable: %v", err)
	}
	defer tok.Close()

	if _, ok := tok.(*TiktokenTokenizer); !ok {
		t.Fatalf("expected tiktoken tokenizer, got %T", tok)
	}
}
