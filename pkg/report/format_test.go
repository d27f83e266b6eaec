package report

import (
	"reflect"
	"strings"
	"testing"
)

func TestSpaceCitations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no citations", "plain text", "plain text"},
		{"tight citation", "see[1]here", "see [1] here"},
		{"already spaced", "see [2] here", "see [2] here"},
		{"adjacent citations", "claims[1][2]hold", "claims [1] [2] hold"},
		{"start of text", "[3]opening", "[3] opening"},
		{"end of line", "first claim[4]\nsecond line", "first claim [4]\nsecond line"},
		{"newlines preserved", "para one[1]\n\npara two", "para one [1]\n\npara two"},
		{"non-numeric bracket untouched", "array[i] stays", "array[i] stays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpaceCitations(tt.in); got != tt.want {
				t.Fatalf("SpaceCitations(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("first line\n\n  second line  \n\n\nthird")
	want := []string{"first line", "second line", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paragraphs = %v, want %v", got, want)
	}
}

func TestStats(t *testing.T) {
	sources := []Source{
		{ID: "a", Type: SourceDocument},
		{ID: "b", Type: SourceURL},
		{ID: "c", Type: SourceURL},
		{ID: "d", Type: SourceText},
	}

	got := Stats(sources)
	if got[SourceDocument] != 1 || got[SourceURL] != 2 || got[SourceText] != 1 {
		t.Fatalf("unexpected stats: %v", got)
	}
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want LinkKind
	}{
		{"empty", "", LinkNone},
		{"whitespace only", "   ", LinkNone},
		{"uploaded sentinel", UploadedDocumentsURL, LinkPlaceholder},
		{"real url", "https://example.com/article", LinkHyperlink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.url); got != tt.want {
				t.Fatalf("ResolveLink(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestCategorizeURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want SourceCategory
	}{
		{"government", "https://www.census.gov/data", CategoryGovernment},
		{"edu", "https://cs.stanford.edu/paper", CategoryAcademic},
		{"arxiv", "https://arxiv.org/abs/1234.5678", CategoryAcademic},
		{"research journal", "https://www.nature.com/articles/x", CategoryResearch},
		{"news", "https://www.reuters.com/world", CategoryNews},
		{"general", "https://example.com", CategoryGeneral},
		{"sentinel", UploadedDocumentsURL, CategoryGeneral},
		{"empty", "", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeURL(tt.url); got != tt.want {
				t.Fatalf("CategorizeURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	r := FinalReport{
		ID:      "rep_1",
		Title:   "Findings",
		Content: "intro[1]text\nsecond paragraph",
		Sources: []Source{
			{ID: "s1", Type: SourceDocument, Title: "notes.pdf", URL: UploadedDocumentsURL},
			{ID: "s2", Type: SourceURL, Title: "Census", URL: "https://www.census.gov/data"},
		},
		WordCount: 5,
	}

	view := Format(r)

	if view.Content != "intro [1] text\nsecond paragraph" {
		t.Fatalf("unexpected content: %q", view.Content)
	}
	if len(view.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %v", view.Paragraphs)
	}
	if len(view.Sources) != 2 {
		t.Fatalf("expected 2 rendered sources, got %d", len(view.Sources))
	}
	if view.Sources[0].Index != 1 || view.Sources[1].Index != 2 {
		t.Fatalf("source indices must be 1-based: %+v", view.Sources)
	}
	if view.Sources[0].LinkKind != LinkPlaceholder {
		t.Fatalf("uploaded source must render as placeholder, got %q", view.Sources[0].LinkKind)
	}
	if view.Sources[1].LinkKind != LinkHyperlink {
		t.Fatalf("url source must render as hyperlink, got %q", view.Sources[1].LinkKind)
	}
	if view.Sources[1].Category != CategoryGovernment {
		t.Fatalf("unexpected category: %q", view.Sources[1].Category)
	}
	if view.Stats[SourceDocument] != 1 || view.Stats[SourceURL] != 1 {
		t.Fatalf("unexpected stats: %v", view.Stats)
	}
}

func TestPlainText(t *testing.T) {
	r := FinalReport{
		Title:   "Findings",
		Content: "body[1]text",
		Sources: []Source{
			{Title: "notes.pdf", URL: UploadedDocumentsURL},
			{Title: "Article", URL: "https://example.com/a"},
			{Title: "Untitled note"},
		},
	}

	got := PlainText(r)

	if !strings.HasPrefix(got, "Findings\n\n") {
		t.Fatalf("expected title header, got %q", got)
	}
	if !strings.Contains(got, "body [1] text") {
		t.Fatalf("expected re-spaced body, got %q", got)
	}
	if !strings.Contains(got, "[1] notes.pdf (User uploaded documents)") {
		t.Fatalf("expected uploaded placeholder line, got %q", got)
	}
	if !strings.Contains(got, "[2] Article (https://example.com/a)") {
		t.Fatalf("expected hyperlink line, got %q", got)
	}
	if !strings.Contains(got, "[3] Untitled note\n") {
		t.Fatalf("expected bare line for linkless source, got %q", got)
	}
}
