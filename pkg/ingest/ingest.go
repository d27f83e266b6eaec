// Package ingest normalizes heterogeneous uploaded documents (PDF, DOCX,
// legacy DOC, plain text) into a single extracted-text representation.
//
// Classification happens by declared MIME type with a filename-suffix
// fallback; extraction is dispatched through a registry of per-format
// extractors so that adding a format means adding one registry entry.
// A failure in one file never aborts the batch.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDocx Kind = "docx"
	KindDoc  Kind = "doc"
	KindText Kind = "text"
)

// Extractor extracts plain text from the raw bytes of a single document format.
type Extractor interface {
	Extract(ctx context.Context, name string, content []byte) ([]byte, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, name string, content []byte) ([]byte, error)

func (f ExtractorFunc) Extract(ctx context.Context, name string, content []byte) ([]byte, error) {
	return f(ctx, name, content)
}

// InputFile is one uploaded file as received from the client.
type InputFile struct {
	Name        string
	Size        int64
	ContentType string
	Content     []byte
}

// ProcessedFile is the per-file ingestion result. It is created once per
// input file and not modified afterwards. On failure Content is empty and
// Error holds a human-readable cause.
type ProcessedFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	WordCount   int    `json:"word_count"`
	TokenCount  int    `json:"token_count"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

var mimeKinds = map[string]Kind{
	"application/pdf": KindPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDocx,
	"application/msword": KindDoc,
	"text/plain":         KindText,
}

var suffixKinds = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDocx,
	".doc":  KindDoc,
	".txt":  KindText,
}

// DetectKind classifies a file by its declared MIME type, falling back to
// the filename suffix when the MIME type is absent or unknown.
func DetectKind(contentType string, name string) (Kind, bool) {
	mt := contentType
	if idx := strings.IndexByte(mt, ';'); idx != -1 {
		mt = mt[:idx]
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	if kind, ok := mimeKinds[mt]; ok {
		return kind, true
	}

	ext := strings.ToLower(filepath.Ext(name))
	if kind, ok := suffixKinds[ext]; ok {
		return kind, true
	}

	return "", false
}

// IsSupported reports whether a file with the given MIME type and name
// can be processed.
func IsSupported(contentType string, name string) bool {
	_, ok := DetectKind(contentType, name)
	return ok
}

// TypeDescription returns a human-readable description of a format kind.
func TypeDescription(kind Kind) string {
	switch kind {
	case KindPDF:
		return "PDF document"
	case KindDocx:
		return "Word document"
	case KindDoc:
		return "Word document (legacy)"
	case KindText:
		return "Plain text"
	default:
		return "Unknown document type"
	}
}

// Service processes batches of uploaded files into ProcessedFile results.
type Service struct {
	extractors  map[Kind]Extractor
	maxFileSize int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxFileSize overrides the per-file size ceiling. Values <= 0 keep
// the default.
func WithMaxFileSize(limit int64) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.maxFileSize = limit
		}
	}
}

// WithExtractor replaces the extractor registered for a format kind.
func WithExtractor(kind Kind, extractor Extractor) ServiceOption {
	return func(s *Service) {
		s.extractors[kind] = extractor
	}
}

// NewService creates an ingestion service with the default per-format
// extractors registered.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		extractors: map[Kind]Extractor{
			KindPDF:  &PDFExtractor{},
			KindDocx: &DocxExtractor{},
			KindDoc:  &LegacyDocExtractor{},
			KindText: &PlainTextExtractor{},
		},
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register adds or replaces the extractor for a format kind.
func (s *Service) Register(kind Kind, extractor Extractor) {
	s.extractors[kind] = extractor
}

// MaxFileSize returns the per-file size ceiling in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ProcessBatch processes files sequentially and returns exactly one result
// per input, in input order. Failures are isolated per file.
func (s *Service) ProcessBatch(ctx context.Context, files []InputFile) []ProcessedFile {
	results := make([]ProcessedFile, 0, len(files))
	for _, file := range files {
		results = append(results, s.processFile(ctx, file))
	}
	return results
}

func (s *Service) processFile(ctx context.Context, file InputFile) ProcessedFile {
	result := ProcessedFile{
		Name:        file.Name,
		Size:        file.Size,
		ContentType: file.ContentType,
	}

	fail := func(message string) ProcessedFile {
		result.Success = false
		result.Content = ""
		result.WordCount = 0
		result.TokenCount = 0
		result.Error = message
		return result
	}

	size := file.Size
	if actual := int64(len(file.Content)); actual > size {
		size = actual
	}
	if size > s.maxFileSize {
		return fail(fmt.Sprintf(
			"file exceeds size limit of %s (got %s)",
			FormatBytes(s.maxFileSize),
			FormatBytes(size),
		))
	}

	kind, ok := DetectKind(file.ContentType, file.Name)
	if !ok {
		return fail(fmt.Sprintf("unsupported file type: %q", file.ContentType))
	}

	extractor, ok := s.extractors[kind]
	if !ok {
		return fail(fmt.Sprintf("no extractor registered for %s", TypeDescription(kind)))
	}

	text, err := extractor.Extract(ctx, file.Name, file.Content)
	if err != nil {
		return fail(fmt.Sprintf("failed to extract text: %v", err))
	}

	content := strings.TrimSpace(string(text))
	result.Content = content
	result.WordCount = CountWords(content)
	result.TokenCount = CountTokens(content)
	result.Success = true
	return result
}

// CountWords counts whitespace-delimited non-empty tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
