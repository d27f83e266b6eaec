// Package report models assembled research reports and their cited
// sources, and provides the pure formatting operations the client
// renders from.
package report

import (
	"net/url"
	"strings"
	"time"
)

// UploadedDocumentsURL is the sentinel a source carries in place of a
// real URL when its material came from user-uploaded files.
const UploadedDocumentsURL = "User uploaded documents"

// SourceType classifies where a source's material came from.
type SourceType string

const (
	SourceDocument SourceType = "document"
	SourceURL      SourceType = "url"
	SourceText     SourceType = "text"
)

func (t SourceType) Valid() bool {
	switch t {
	case SourceDocument, SourceURL, SourceText:
		return true
	}
	return false
}

// SourceCategory is a closed presentation grouping derived from the
// source URL. The client maps it to an icon and color.
type SourceCategory string

const (
	CategoryAcademic   SourceCategory = "academic"
	CategoryGovernment SourceCategory = "government"
	CategoryNews       SourceCategory = "news"
	CategoryResearch   SourceCategory = "research"
	CategoryGeneral    SourceCategory = "general"
)

// Icon returns the client-side icon hint for the category.
func (c SourceCategory) Icon() string {
	switch c {
	case CategoryAcademic:
		return "graduation-cap"
	case CategoryGovernment:
		return "landmark"
	case CategoryNews:
		return "newspaper"
	case CategoryResearch:
		return "flask"
	default:
		return "globe"
	}
}

// Color returns the client-side color hint for the category.
func (c SourceCategory) Color() string {
	switch c {
	case CategoryAcademic:
		return "blue"
	case CategoryGovernment:
		return "emerald"
	case CategoryNews:
		return "amber"
	case CategoryResearch:
		return "violet"
	default:
		return "slate"
	}
}

// LinkKind says how a source reference should be rendered.
type LinkKind string

const (
	// LinkNone means the source has nothing to link to.
	LinkNone LinkKind = "none"
	// LinkPlaceholder means the source came from uploaded documents
	// and renders a static label instead of a hyperlink.
	LinkPlaceholder LinkKind = "placeholder"
	// LinkHyperlink means the URL is a real outbound destination.
	LinkHyperlink LinkKind = "hyperlink"
)

// ResolveLink decides the link rendering for a source URL. The
// uploaded-documents sentinel never becomes a hyperlink.
func ResolveLink(rawURL string) LinkKind {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return LinkNone
	}
	if trimmed == UploadedDocumentsURL {
		return LinkPlaceholder
	}
	return LinkHyperlink
}

// Source is a citation unit referenced by a report.
type Source struct {
	ID       string            `json:"id"`
	Type     SourceType        `json:"type"`
	Title    string            `json:"title"`
	Content  string            `json:"content,omitempty"`
	URL      string            `json:"url,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Category derives the presentation grouping from the source URL.
func (s Source) Category() SourceCategory {
	return CategorizeURL(s.URL)
}

// FinalReport is an assembled research report as stored. The report
// body and sources are produced by the external research pipeline;
// this service stores and formats them.
type FinalReport struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Sources    []Source  `json:"sources"`
	WordCount  int       `json:"word_count"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var academicHosts = []string{"arxiv.org", "scholar.google.com", "jstor.org", "semanticscholar.org"}

var researchHosts = []string{"nature.com", "sciencedirect.com", "springer.com", "ieee.org", "researchgate.net", "pubmed.ncbi.nlm.nih.gov", "plos.org"}

var newsHosts = []string{"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "nytimes.com", "theguardian.com", "washingtonpost.com", "cnn.com"}

// CategorizeURL maps a source URL to its presentation category by
// host. Unknown or unparsable URLs fall back to the general category.
func CategorizeURL(rawURL string) SourceCategory {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" || trimmed == UploadedDocumentsURL {
		return CategoryGeneral
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return CategoryGeneral
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return CategoryGeneral
	}

	if strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov.") {
		return CategoryGovernment
	}
	if strings.HasSuffix(host, ".edu") || matchesHost(host, academicHosts) {
		return CategoryAcademic
	}
	if matchesHost(host, researchHosts) {
		return CategoryResearch
	}
	if matchesHost(host, newsHosts) {
		return CategoryNews
	}

	return CategoryGeneral
}

func matchesHost(host string, candidates []string) bool {
	for _, candidate := range candidates {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}
