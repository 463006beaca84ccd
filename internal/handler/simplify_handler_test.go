package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legal-doc-simplifier/internal/domain"
	apperrors "legal-doc-simplifier/pkg/errors"
)

type mockSimplifier struct {
	doc  *domain.SimplifiedDocument
	err  error
	got  *domain.UploadedFile
	hits int
}

func (m *mockSimplifier) Simplify(ctx context.Context, file *domain.UploadedFile) (*domain.SimplifiedDocument, error) {
	m.hits++
	m.got = file
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func newUploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	} else {
		_ = mw.WriteField("note", "no file attached")
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) SimplifyResponse {
	t.Helper()
	var resp SimplifyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

func TestSimplifyHandler_Index(t *testing.T) {
	h := NewSimplifyHandler(&mockSimplifier{}, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"AI Legal Document Simplifier",
		"Upload Legal Document (PDF)",
		"Simplified Document",
		"terms of service, or privacy policies",
		`name="file"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %s", ct)
	}
}

func TestSimplifyHandler_FormSuccess(t *testing.T) {
	simplifier := &mockSimplifier{doc: &domain.SimplifiedDocument{Text: "You must pay rent <monthly>.", PageCount: 1}}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.SimplifyForm(rr, newUploadRequest(t, "/simplify", "../../lease.pdf", []byte("%PDF-1.4 body")))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "You must pay rent &lt;monthly&gt;.") {
		t.Fatalf("expected escaped result in page, got %s", rr.Body.String())
	}
	if simplifier.got.Filename != "lease.pdf" {
		t.Fatalf("expected sanitized filename, got %q", simplifier.got.Filename)
	}
	if string(simplifier.got.Data) != "%PDF-1.4 body" || simplifier.got.Size != 13 {
		t.Fatalf("unexpected upload %+v", simplifier.got)
	}
}

func TestSimplifyHandler_FormShowsNoTextMessage(t *testing.T) {
	simplifier := &mockSimplifier{err: apperrors.NewNoTextFoundError(domain.ErrNoTextFound)}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.SimplifyForm(rr, newUploadRequest(t, "/simplify", "scan.pdf", []byte("%PDF-1.4")))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Could not extract text from the uploaded file. Please ensure it contains selectable text.") {
		t.Fatalf("expected no-text message in page, got %s", rr.Body.String())
	}
}

func TestSimplifyHandler_APISuccess(t *testing.T) {
	simplifier := &mockSimplifier{doc: &domain.SimplifiedDocument{Text: "Plain summary.", PageCount: 3, Truncated: true}}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "terms.pdf", []byte("%PDF-1.7")))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Text != "Plain summary." || resp.Status != "ok" || resp.PageCount != 3 || !resp.Truncated {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSimplifyHandler_APIErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantPrefix string
	}{
		{"extraction", apperrors.NewExtractionError(errors.New("malformed PDF")), http.StatusUnprocessableEntity, "extraction_failed", "Error extracting text: malformed PDF"},
		{"generation", apperrors.NewGenerationError(errors.New("connection refused")), http.StatusBadGateway, "generation_failed", "Error during processing: connection refused"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal", "Error during processing: boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSimplifyHandler(&mockSimplifier{err: tc.err}, NewMockHandlerLogger(), 1<<20)

			rr := httptest.NewRecorder()
			h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "a.pdf", []byte("%PDF-")))

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			resp := decodeResponse(t, rr)
			if resp.Status != tc.wantType || resp.Text != tc.wantPrefix {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestSimplifyHandler_MissingFile(t *testing.T) {
	simplifier := &mockSimplifier{}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Status != "validation" || resp.Text != "File is required" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if simplifier.hits != 0 {
		t.Fatalf("expected simplifier not to be called")
	}
}

func TestSimplifyHandler_EmptyFile(t *testing.T) {
	simplifier := &mockSimplifier{err: apperrors.NewExtractionError(errors.New("missing %PDF- header"))}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 1<<20)

	rr := httptest.NewRecorder()
	h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "empty.pdf", []byte{}))

	if simplifier.hits != 1 || simplifier.got == nil || len(simplifier.got.Data) != 0 {
		t.Fatalf("expected the empty upload to reach the simplifier, got %+v", simplifier.got)
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Text != "Error extracting text: missing %PDF- header" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSimplifyHandler_FileTooLarge(t *testing.T) {
	simplifier := &mockSimplifier{}
	h := NewSimplifyHandler(simplifier, NewMockHandlerLogger(), 10)

	rr := httptest.NewRecorder()
	h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "big.pdf", bytes.Repeat([]byte("a"), 100)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Text != "File too large: maximum file size is 10 bytes" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if simplifier.hits != 0 {
		t.Fatalf("expected simplifier not to be called")
	}
}

func TestSimplifyHandler_BodyOverLimit(t *testing.T) {
	h := NewSimplifyHandler(&mockSimplifier{}, NewMockHandlerLogger(), 1)

	rr := httptest.NewRecorder()
	h.SimplifyAPI(rr, newUploadRequest(t, "/api/v1/simplify", "huge.pdf", bytes.Repeat([]byte("a"), 2<<20)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if resp := decodeResponse(t, rr); !strings.HasPrefix(resp.Text, "File too large") {
		t.Fatalf("unexpected response %+v", resp)
	}
}
