package ingest

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLegacyDocExtractorTextPassthrough(t *testing.T) {
	e := &LegacyDocExtractor{}

	got, err := e.Extract(context.Background(), "memo.doc", []byte("plain text saved with a .doc suffix"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "plain text saved with a .doc suffix" {
		t.Fatalf("unexpected text: %q", string(got))
	}
}

func TestLegacyDocExtractorSalvagesBinary(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1})
	buf.Write(bytes.Repeat([]byte{0x00, 0x01}, 64))
	buf.WriteString("The quick brown fox jumps over the lazy dog")
	buf.Write(bytes.Repeat([]byte{0x00}, 32))
	buf.WriteString("ab") // too short to be a real text run
	buf.Write([]byte{0x02, 0x03})

	e := &LegacyDocExtractor{}
	got, err := e.Extract(context.Background(), "legacy.doc", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(got)
	if !strings.Contains(text, "The quick brown fox") {
		t.Fatalf("expected salvaged sentence, got %q", text)
	}
	if strings.Contains(text, "ab\n") {
		t.Fatalf("short runs must be dropped, got %q", text)
	}
}

func TestLegacyDocExtractorNoText(t *testing.T) {
	content := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 64)

	e := &LegacyDocExtractor{}
	if _, err := e.Extract(context.Background(), "empty.doc", content); err == nil {
		t.Fatal("expected error when no readable text exists")
	}
}
