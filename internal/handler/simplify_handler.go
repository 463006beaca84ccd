package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"legal-doc-simplifier/internal/domain"
	apperrors "legal-doc-simplifier/pkg/errors"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	pageTitle       = "AI Legal Document Simplifier"
	pageDescription = "Upload a legal document (such as contracts, terms of service, or privacy policies) in PDF format, " +
		"and this tool will simplify the language into plain English while highlighting key obligations, penalties, or conditions."
	inputLabel  = "Upload Legal Document (PDF)"
	outputLabel = "Simplified Document"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

type pageData struct {
	Title       string
	Description string
	InputLabel  string
	OutputLabel string
	Result      string
}

// SimplifyResponse is the JSON body of the API endpoint
type SimplifyResponse struct {
	Text      string `json:"text"`
	Status    string `json:"status"`
	PageCount int    `json:"page_count,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// SimplifyHandler exposes the simplifier as an HTML form and a JSON endpoint
type SimplifyHandler struct {
	simplifier  domain.Simplifier
	logger      domain.Logger
	maxFileSize int64
}

func NewSimplifyHandler(simplifier domain.Simplifier, logger domain.Logger, maxFileSize int64) *SimplifyHandler {
	return &SimplifyHandler{
		simplifier:  simplifier,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Index renders the empty form
func (h *SimplifyHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "")
}

// SimplifyForm handles a form submission and renders the result in the page.
// Failures are shown in the output field like any other result.
func (h *SimplifyHandler) SimplifyForm(w http.ResponseWriter, r *http.Request) {
	doc, err := h.simplify(w, r)
	if err != nil {
		h.renderPage(w, apperrors.GetStatusCode(err), apperrors.DisplayMessage(err))
		return
	}
	h.renderPage(w, http.StatusOK, doc.Text)
}

// SimplifyAPI handles POST /api/v1/simplify
func (h *SimplifyHandler) SimplifyAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := h.simplify(w, r)
	if err != nil {
		writeJSON(w, apperrors.GetStatusCode(err), SimplifyResponse{
			Text:   apperrors.DisplayMessage(err),
			Status: string(apperrors.GetType(err)),
		})
		return
	}
	writeJSON(w, http.StatusOK, SimplifyResponse{
		Text:      doc.Text,
		Status:    "ok",
		PageCount: doc.PageCount,
		Truncated: doc.Truncated,
	})
}

// Health reports liveness
func (h *SimplifyHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "legal-doc-simplifier"})
}

func (h *SimplifyHandler) simplify(w http.ResponseWriter, r *http.Request) (*domain.SimplifiedDocument, error) {
	requestID := GetRequestID(r)

	file, err := h.readUpload(w, r)
	if err != nil {
		h.logger.Warn("Rejected upload", "request_id", requestID, "error", err.Error())
		return nil, err
	}

	doc, err := h.simplifier.Simplify(r.Context(), file)
	if err != nil {
		h.logger.Error("Simplification failed", err,
			"request_id", requestID,
			"type", string(apperrors.GetType(err)),
			"filename", file.Filename,
		)
		return nil, err
	}

	h.logger.Info("Simplification completed",
		"request_id", requestID,
		"filename", file.Filename,
		"pages", doc.PageCount,
		"truncated", doc.Truncated,
	)
	return doc, nil
}

func (h *SimplifyHandler) readUpload(w http.ResponseWriter, r *http.Request) (*domain.UploadedFile, error) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, h.tooLarge()
		}
		return nil, apperrors.NewValidationError("File is required")
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		return nil, h.tooLarge()
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, apperrors.NewInternalError("Failed to read upload", err)
	}

	// Sanitize filename (strip any path components)
	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document.pdf"
	}

	return &domain.UploadedFile{
		Filename: name,
		Size:     int64(buf.Len()),
		Data:     buf.Bytes(),
	}, nil
}

func (h *SimplifyHandler) tooLarge() error {
	limit := fmt.Sprintf("%d bytes", h.maxFileSize)
	if h.maxFileSize >= 1<<20 {
		limit = fmt.Sprintf("%d MB", h.maxFileSize>>20)
	}
	return apperrors.NewValidationError("File too large", "maximum file size is "+limit)
}

func (h *SimplifyHandler) renderPage(w http.ResponseWriter, status int, result string) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, pageData{
		Title:       pageTitle,
		Description: pageDescription,
		InputLabel:  inputLabel,
		OutputLabel: outputLabel,
		Result:      result,
	})
	if err != nil {
		h.logger.Error("Failed to render page", err)
		writeError(w, http.StatusInternalServerError, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
