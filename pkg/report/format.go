package report

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reCitation         = regexp.MustCompile(`[ \t]*\[(\d+)\][ \t]*`)
	reAdjacentCitation = regexp.MustCompile(`\][ \t]+\[`)
	reLineTrailing     = regexp.MustCompile(`[ \t]+\n`)
)

// SpaceCitations pads `[N]` citation markers with surrounding spaces
// so they read as standalone tokens. Newlines and paragraph structure
// are preserved.
func SpaceCitations(text string) string {
	spaced := reCitation.ReplaceAllString(text, " [$1] ")
	spaced = reAdjacentCitation.ReplaceAllString(spaced, "] [")
	spaced = reLineTrailing.ReplaceAllString(spaced, "\n")
	return strings.Trim(spaced, " \t")
}

// Paragraphs splits report text on newlines into displayable
// paragraphs, dropping blank lines.
func Paragraphs(text string) []string {
	lines := strings.Split(text, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		paragraphs = append(paragraphs, trimmed)
	}
	return paragraphs
}

// Stats counts sources grouped by their type.
func Stats(sources []Source) map[SourceType]int {
	stats := make(map[SourceType]int, len(sources))
	for _, source := range sources {
		stats[source.Type]++
	}
	return stats
}

// RenderedSource is a source enriched with everything the client
// needs to draw its list entry.
type RenderedSource struct {
	Index    int            `json:"index"`
	Source   Source         `json:"source"`
	Category SourceCategory `json:"category"`
	Icon     string         `json:"icon"`
	Color    string         `json:"color"`
	LinkKind LinkKind       `json:"link_kind"`
}

// FormattedView is the fully prepared rendition of a report.
type FormattedView struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Paragraphs []string           `json:"paragraphs"`
	Sources    []RenderedSource   `json:"sources"`
	Stats      map[SourceType]int `json:"stats"`
	WordCount  int                `json:"word_count"`
	TokenCount int                `json:"token_count"`
}

// Format builds the client-facing view of a report: re-spaced
// citations, paragraph list, per-type source statistics, and resolved
// link kinds. Source indices are 1-based to match citation markers.
func Format(r FinalReport) FormattedView {
	content := SpaceCitations(r.Content)

	sources := make([]RenderedSource, 0, len(r.Sources))
	for i, source := range r.Sources {
		category := source.Category()
		sources = append(sources, RenderedSource{
			Index:    i + 1,
			Source:   source,
			Category: category,
			Icon:     category.Icon(),
			Color:    category.Color(),
			LinkKind: ResolveLink(source.URL),
		})
	}

	return FormattedView{
		ID:         r.ID,
		Title:      r.Title,
		Content:    content,
		Paragraphs: Paragraphs(content),
		Sources:    sources,
		Stats:      Stats(r.Sources),
		WordCount:  r.WordCount,
		TokenCount: r.TokenCount,
	}
}

// PlainText renders a report as copyable plain text: title, body with
// re-spaced citations, and a numbered source list.
func PlainText(r FinalReport) string {
	var sb strings.Builder

	if title := strings.TrimSpace(r.Title); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(SpaceCitations(r.Content))

	if len(r.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for i, source := range r.Sources {
			switch ResolveLink(source.URL) {
			case LinkHyperlink:
				fmt.Fprintf(&sb, "[%d] %s (%s)\n", i+1, source.Title, source.URL)
			case LinkPlaceholder:
				fmt.Fprintf(&sb, "[%d] %s (%s)\n", i+1, source.Title, UploadedDocumentsURL)
			default:
				fmt.Fprintf(&sb, "[%d] %s\n", i+1, source.Title)
			}
		}
	}

	return sb.String()
}
