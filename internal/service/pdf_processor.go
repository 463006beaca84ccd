package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"legal-doc-simplifier/internal/domain"
	apperrors "legal-doc-simplifier/pkg/errors"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const defaultPageTimeout = 90 * time.Second

// PDFProcessor extracts the text of every page and joins it in page order
type PDFProcessor struct {
	backend     domain.PDFBackend
	pageTimeout time.Duration
	logger      domain.Logger
}

// NewPDFProcessor creates a new PDF processor for the given backend
func NewPDFProcessor(backend domain.PDFBackend, logger domain.Logger) (*PDFProcessor, error) {
	switch backend {
	case "":
		backend = domain.PDFBackendLedongthuc
	case domain.PDFBackendLedongthuc, domain.PDFBackendFitz:
	default:
		return nil, fmt.Errorf("%w: pdf backend %q", domain.ErrUnknownBackend, backend)
	}
	return &PDFProcessor{
		backend:     backend,
		pageTimeout: defaultPageTimeout,
		logger:      logger,
	}, nil
}

// Extract returns the concatenated page text. Failures of any kind in the
// parser come back as an extraction error; a document without selectable
// text comes back as a no-text error.
func (p *PDFProcessor) Extract(data []byte) (extracted *domain.ExtractedText, err error) {
	defer func() {
		if r := recover(); r != nil {
			extracted = nil
			err = apperrors.NewExtractionError(fmt.Errorf("%v", r))
		}
	}()

	if !HasPDFHeader(data) {
		return nil, apperrors.NewExtractionError(fmt.Errorf("%w: missing %%PDF- header", domain.ErrInvalidFile))
	}

	src, err := p.open(data)
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}
	defer src.Close()

	text, err := concatPages(src)
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}
	text = sanitizeText(text)

	p.logger.Debug("PDF text extracted", "backend", p.backend, "pages", src.NumPages(), "chars", len(text))

	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewNoTextFoundError(domain.ErrNoTextFound)
	}

	return &domain.ExtractedText{
		Content:   text,
		PageCount: src.NumPages(),
	}, nil
}

func (p *PDFProcessor) open(data []byte) (domain.PageSource, error) {
	switch p.backend {
	case domain.PDFBackendFitz:
		return openFitz(data, p.pageTimeout, p.logger)
	default:
		return openLedongthuc(data)
	}
}

// concatPages joins page texts with no separator between pages
func concatPages(src domain.PageSource) (string, error) {
	var sb strings.Builder
	for i := 0; i < src.NumPages(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// HasPDFHeader reports whether data starts with the %PDF- magic bytes
func HasPDFHeader(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// sanitizeText drops NUL bytes, invalid UTF-8 and control characters other
// than tab, newline and carriage return.
func sanitizeText(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			continue
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

type ledongthucSource struct {
	reader *pdf.Reader
}

func openLedongthuc(data []byte) (domain.PageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &ledongthucSource{reader: r}, nil
}

func (s *ledongthucSource) NumPages() int {
	return s.reader.NumPage()
}

func (s *ledongthucSource) PageText(index int) (string, error) {
	// ledongthuc pages are 1-indexed
	page := s.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (s *ledongthucSource) Close() error {
	return nil
}

// fitzDocument is the part of *fitz.Document the processor reads
type fitzDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Close() error
}

// fitzSource runs each page on its own goroutine so a slow page can time out.
// A timed-out call keeps using the document, so Close defers freeing it
// until every in-flight page has returned.
type fitzSource struct {
	doc         fitzDocument
	pageTimeout time.Duration
	logger      domain.Logger

	mu       sync.Mutex
	inFlight int
	closed   bool
}

func openFitz(data []byte, pageTimeout time.Duration, logger domain.Logger) (domain.PageSource, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return newFitzSource(doc, pageTimeout, logger), nil
}

func newFitzSource(doc fitzDocument, pageTimeout time.Duration, logger domain.Logger) *fitzSource {
	return &fitzSource{doc: doc, pageTimeout: pageTimeout, logger: logger}
}

func (s *fitzSource) NumPages() int {
	return s.doc.NumPage()
}

func (s *fitzSource) PageText(index int) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", errors.New("document is closed")
	}
	s.inFlight++
	s.mu.Unlock()

	type pageResult struct {
		text string
		err  error
	}
	resultCh := make(chan pageResult, 1)
	go func() {
		defer s.release()
		defer func() {
			if r := recover(); r != nil {
				resultCh <- pageResult{err: fmt.Errorf("panic extracting page %d: %v", index+1, r)}
			}
		}()
		t, e := s.doc.Text(index)
		resultCh <- pageResult{text: t, err: e}
	}()
	select {
	case res := <-resultCh:
		return res.text, res.err
	case <-time.After(s.pageTimeout):
		s.logger.Warn("PDF page extraction timeout", "page", index+1, "timeout_sec", int(s.pageTimeout.Seconds()))
		return "", fmt.Errorf("timeout after %v", s.pageTimeout)
	}
}

// release marks a page call finished and frees the document if Close
// already ran while the call was pending.
func (s *fitzSource) release() {
	s.mu.Lock()
	s.inFlight--
	free := s.closed && s.inFlight == 0
	s.mu.Unlock()
	if free {
		if err := s.doc.Close(); err != nil {
			s.logger.Warn("Failed to close PDF document", "error", err.Error())
		}
	}
}

func (s *fitzSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.inFlight > 0
	s.mu.Unlock()
	if pending {
		return nil
	}
	return s.doc.Close()
}
