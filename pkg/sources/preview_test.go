package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Coral Study</title></head>
<body>
<article>
<h1>Coral Study</h1>
<p>Rising sea temperatures are the primary driver of coral bleaching events
observed across tropical reef systems in the last decade.</p>
<p>Recovery depends on the duration of the thermal stress.</p>
</article>
</body>
</html>`

func TestFetchExtractsReadableText(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(articleHTML)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())

	preview, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(preview.Text, "coral bleaching") {
		t.Fatalf("expected article text, got %q", preview.Text)
	}
	if preview.Excerpt == "" {
		t.Fatal("expected a non-empty excerpt")
	}

	// Second fetch must come from the cache.
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error on cached fetch: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", got)
	}
}

func TestFetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		if _, err := w.Write([]byte("%PDF-1.4")); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected non-HTML content to be rejected")
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	f := NewFetcher(nil)
	if _, err := f.Fetch(context.Background(), "ftp://example.com/file"); err == nil {
		t.Fatal("expected non-http scheme to be rejected")
	}
}

func TestExcerptOf(t *testing.T) {
	short := excerptOf("a short  text\nwith lines")
	if short != "a short text with lines" {
		t.Fatalf("unexpected excerpt: %q", short)
	}

	long := excerptOf(strings.Repeat("word ", 100))
	if len(long) > maxExcerptLength+len("…") {
		t.Fatalf("excerpt too long: %d", len(long))
	}
	if !strings.HasSuffix(long, "…") {
		t.Fatalf("expected truncation marker, got %q", long)
	}
}
