package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestProcessBatchPreservesOrderAndIsolatesFailures(t *testing.T) {
	svc := NewService(
		WithExtractor(KindPDF, ExtractorFunc(func(ctx context.Context, name string, content []byte) ([]byte, error) {
			return nil, errors.New("corrupt xref table")
		})),
	)

	files := []InputFile{
		{Name: "first.txt", Size: 11, ContentType: "text/plain", Content: []byte("hello there")},
		{Name: "broken.pdf", Size: 100, ContentType: "application/pdf", Content: []byte("%PDF-1.4 garbage")},
		{Name: "last.txt", Size: 3, ContentType: "text/plain", Content: []byte("bye")},
	}

	results := svc.ProcessBatch(context.Background(), files)

	if len(results) != len(files) {
		t.Fatalf("expected %d results, got %d", len(files), len(results))
	}

	for i, file := range files {
		if results[i].Name != file.Name {
			t.Fatalf("result %d out of order: got %q, want %q", i, results[i].Name, file.Name)
		}
	}

	if !results[0].Success || !results[2].Success {
		t.Fatalf("expected surrounding files to succeed: %+v, %+v", results[0], results[2])
	}

	failed := results[1]
	if failed.Success {
		t.Fatal("expected pdf extraction failure to be recorded")
	}
	if failed.Content != "" {
		t.Fatalf("failed file must not retain partial content, got %q", failed.Content)
	}
	if failed.WordCount != 0 {
		t.Fatalf("failed file must have zero word count, got %d", failed.WordCount)
	}
	if failed.Error == "" {
		t.Fatal("failed file must carry a non-empty error string")
	}
}

func TestProcessBatchWordCountAndTrim(t *testing.T) {
	svc := NewService()

	results := svc.ProcessBatch(context.Background(), []InputFile{
		{Name: "notes.txt", Size: 18, ContentType: "text/plain", Content: []byte("hello   world\n\nfoo")},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	got := results[0]
	if !got.Success {
		t.Fatalf("expected success, got error %q", got.Error)
	}
	if got.Content != "hello   world\n\nfoo" {
		t.Fatalf("unexpected content: %q", got.Content)
	}
	if got.WordCount != 3 {
		t.Fatalf("expected word count 3, got %d", got.WordCount)
	}
}

func TestProcessBatchUnsupportedType(t *testing.T) {
	svc := NewService()

	results := svc.ProcessBatch(context.Background(), []InputFile{
		{Name: "archive.zip", Size: 4, ContentType: "application/zip", Content: []byte("PK\x03\x04")},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Success {
		t.Fatal("expected unsupported type to fail")
	}
	if !strings.Contains(results[0].Error, "unsupported") {
		t.Fatalf("expected unsupported-type error, got %q", results[0].Error)
	}
}

func TestProcessBatchSizeCeiling(t *testing.T) {
	svc := NewService(WithMaxFileSize(64))

	results := svc.ProcessBatch(context.Background(), []InputFile{
		{Name: "huge.txt", Size: 1 << 20, ContentType: "text/plain", Content: []byte("x")},
		{Name: "small.txt", Size: 5, ContentType: "text/plain", Content: []byte("still fine")},
	})

	if results[0].Success {
		t.Fatal("expected oversized file to fail")
	}
	if !strings.Contains(results[0].Error, "size limit") {
		t.Fatalf("expected size-limit error, got %q", results[0].Error)
	}
	if !results[1].Success {
		t.Fatalf("expected remaining file to succeed, got error %q", results[1].Error)
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		fileName    string
		want        Kind
		wantOK      bool
	}{
		{"pdf mime", "application/pdf", "paper.bin", KindPDF, true},
		{"docx mime", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "x", KindDocx, true},
		{"legacy doc mime", "application/msword", "old", KindDoc, true},
		{"plain text mime with charset", "text/plain; charset=utf-8", "notes", KindText, true},
		{"suffix fallback uppercase", "", "report.TXT", KindText, true},
		{"suffix fallback pdf", "application/octet-stream", "paper.pdf", KindPDF, true},
		{"unsupported", "application/zip", "archive.zip", "", false},
		{"no mime no suffix", "", "README", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectKind(tt.contentType, tt.fileName)
			if ok != tt.wantOK {
				t.Fatalf("DetectKind(%q, %q) ok = %v, want %v", tt.contentType, tt.fileName, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("DetectKind(%q, %q) = %q, want %q", tt.contentType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestIsSupportedSuffixFallback(t *testing.T) {
	if !IsSupported("", "report.TXT") {
		t.Fatal("expected .TXT suffix fallback to be supported with empty MIME type")
	}
	if IsSupported("", "image.png") {
		t.Fatal("expected .png to be unsupported")
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"only whitespace", "  \n\t ", 0},
		{"single", "word", 1},
		{"mixed whitespace", "hello   world\n\nfoo", 3},
		{"tabs and newlines", "a\tb\nc d", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.in); got != tt.want {
				t.Fatalf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "0 Bytes"},
		{"bytes", 512, "512 Bytes"},
		{"one and a half kb", 1536, "1.5 KB"},
		{"exact mb", 1048576, "1 MB"},
		{"fractional mb", 1310720, "1.25 MB"},
		{"gb", 1073741824, "1 GB"},
		{"rounded", 1234, "1.21 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.in); got != tt.want {
				t.Fatalf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithinSizeLimit(t *testing.T) {
	if !WithinSizeLimit(DefaultMaxFileSize, 0) {
		t.Fatal("default ceiling should be inclusive")
	}
	if WithinSizeLimit(DefaultMaxFileSize+1, 0) {
		t.Fatal("expected oversize to be rejected under default ceiling")
	}
	if !WithinSizeLimit(100, 100) {
		t.Fatal("explicit ceiling should be inclusive")
	}
	if WithinSizeLimit(101, 100) {
		t.Fatal("expected oversize to be rejected under explicit ceiling")
	}
}

func TestTypeDescription(t *testing.T) {
	if got := TypeDescription(KindPDF); got != "PDF document" {
		t.Fatalf("unexpected description: %q", got)
	}
	if got := TypeDescription(Kind("weird")); got != "Unknown document type" {
		t.Fatalf("unexpected fallback description: %q", got)
	}
}
