package domain

// PDFBackend names a PDF text extraction implementation
type PDFBackend string

const (
	PDFBackendLedongthuc PDFBackend = "ledongthuc"
	PDFBackendFitz       PDFBackend = "fitz"
)

// UploadedFile is a PDF received from the web form for a single request
type UploadedFile struct {
	Filename string
	Size     int64
	Data     []byte
}

// ExtractedText is the concatenated text of every page, in page order
type ExtractedText struct {
	Content   string `json:"content"`
	PageCount int    `json:"page_count"`
}

// Prompt is the instruction template followed by the document text,
// bounded to the model's input token budget.
type Prompt struct {
	Text      string
	Tokens    []int
	Truncated bool
	// OriginalTokens is the token count before truncation
	OriginalTokens int
}

// GenerationRequest carries a prompt and the decoding settings for one call
type GenerationRequest struct {
	Prompt            string
	PromptTokens      []int
	MaxNewTokens      int
	NumSequences      int
	NoRepeatNgramSize int
}

// Generation is the decoded model continuation
type Generation struct {
	Text         string `json:"text"`
	PromptTokens int    `json:"prompt_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// SimplifiedDocument is the result returned to the interface layer
type SimplifiedDocument struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	Truncated bool   `json:"truncated"`
}
