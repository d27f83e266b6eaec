package ingest

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minSalvageRun is the shortest printable run kept when salvaging text
// from a binary legacy .doc file. Shorter runs are almost always field
// codes or OLE noise.
const minSalvageRun = 8

// LegacyDocExtractor handles legacy .doc files with a best-effort
// plain-text read: files that are already valid text pass through,
// binary OLE containers are scanned for printable text runs.
type LegacyDocExtractor struct{}

func (e *LegacyDocExtractor) Extract(ctx context.Context, name string, content []byte) ([]byte, error) {
	if utf8.Valid(content) && looksLikeText(content) {
		return content, nil
	}

	salvaged := salvagePlainText(content)
	if strings.TrimSpace(salvaged) == "" {
		return nil, fmt.Errorf("no readable text found in legacy doc file")
	}

	return []byte(salvaged), nil
}

// looksLikeText reports whether the bulk of the content is printable.
func looksLikeText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	printable := 0
	total := 0
	for _, r := range string(content) {
		total++
		if r == '\n' || r == '\r' || r == '\t' || unicode.IsPrint(r) {
			printable++
		}
	}

	return printable*100 >= total*95
}

func salvagePlainText(content []byte) string {
	var sb strings.Builder
	run := make([]byte, 0, 256)

	flush := func() {
		if len(run) >= minSalvageRun && containsLetter(run) {
			sb.Write(run)
			sb.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, c := range content {
		switch {
		case c == '\r':
			// normalized away
		case c == '\n' || c == '\t' || (c >= 0x20 && c < 0x7f):
			run = append(run, c)
		default:
			flush()
		}
	}
	flush()

	return sb.String()
}

func containsLetter(run []byte) bool {
	for _, c := range run {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
