package ingest

import (
	"context"
	"strings"
	"unicode/utf8"
)

// PlainTextExtractor reads plain-text files as-is, repairing invalid UTF-8.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, name string, content []byte) ([]byte, error) {
	if utf8.Valid(content) {
		return content, nil
	}
	return []byte(strings.ToValidUTF8(string(content), "")), nil
}
