package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/ingest"
)

func newMultipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for name, content := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		switch {
		case bytes.HasPrefix(content, []byte("PK")):
			header.Set("Content-Type", "application/zip")
		default:
			header.Set("Content-Type", "text/plain")
		}

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func newTestContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	app := &middleware.App{Ingest: ingest.NewService()}
	return &middleware.AppContext{Context: c, App: app}, rec
}

func TestExtractDocumentsHandler(t *testing.T) {
	body, contentType := newMultipartBody(t, map[string][]byte{
		"notes.txt": []byte("hello   world\n\nfoo"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newTestContext(t, req)

	if err := ExtractDocumentsHandler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Files []ingest.ProcessedFile `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(resp.Files))
	}

	got := resp.Files[0]
	if !got.Success {
		t.Fatalf("expected success, got error %q", got.Error)
	}
	if got.Name != "notes.txt" {
		t.Fatalf("unexpected name: %q", got.Name)
	}
	if got.WordCount != 3 {
		t.Fatalf("expected word count 3, got %d", got.WordCount)
	}
	if got.Content != "hello   world\n\nfoo" {
		t.Fatalf("unexpected content: %q", got.Content)
	}
}

func TestExtractDocumentsHandlerIsolatesFailures(t *testing.T) {
	body, contentType := newMultipartBody(t, map[string][]byte{
		"archive.zip": []byte("PK\x03\x04"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newTestContext(t, req)

	if err := ExtractDocumentsHandler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Files []ingest.ProcessedFile `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(resp.Files))
	}
	if resp.Files[0].Success {
		t.Fatal("expected unsupported type to fail")
	}
	if resp.Files[0].Error == "" {
		t.Fatal("expected a non-empty error string")
	}
}

func TestMarkUnreadableUploads(t *testing.T) {
	inputs := []ingest.InputFile{
		{Name: "ok.txt", Size: 5, ContentType: "text/plain", Content: []byte("hello")},
		{Name: "broken.txt", Size: 10, ContentType: "text/plain"},
		{Name: "also-ok.txt", Size: 3, ContentType: "text/plain", Content: []byte("bye")},
	}
	readErrs := []error{nil, errors.New("unexpected EOF"), nil}

	svc := ingest.NewService()
	results := svc.ProcessBatch(context.Background(), inputs)
	markUnreadableUploads(results, inputs, readErrs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || !results[2].Success {
		t.Fatalf("expected surrounding files to succeed: %+v, %+v", results[0], results[2])
	}

	failed := results[1]
	if failed.Success {
		t.Fatal("expected unreadable upload to fail")
	}
	if failed.Content != "" {
		t.Fatalf("unreadable upload must not retain content, got %q", failed.Content)
	}
	if failed.WordCount != 0 {
		t.Fatalf("unreadable upload must have zero word count, got %d", failed.WordCount)
	}
	if failed.Error == "" {
		t.Fatal("expected a non-empty error string")
	}
	if failed.Name != "broken.txt" {
		t.Fatalf("result out of order: %q", failed.Name)
	}
}

func TestExtractDocumentsHandlerNoFiles(t *testing.T) {
	body, contentType := newMultipartBody(t, map[string][]byte{})

	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newTestContext(t, req)

	if err := ExtractDocumentsHandler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
