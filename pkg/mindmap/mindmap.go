// Package mindmap builds node/edge graphs from research reports for
// the client's mind-map visualization.
package mindmap

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/scribe-research/backend/pkg/report"
)

// Status tracks the lifecycle of an asynchronous generation job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Node is a single mind-map node. Level 0 is the root.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Level int    `json:"level"`
}

// Edge connects two nodes by ID.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Map is a generated mind map for a report.
type Map struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks node ID uniqueness and edge referential integrity.
func (m *Map) Validate() error {
	if len(m.Nodes) == 0 {
		return fmt.Errorf("mind map has no nodes")
	}

	ids := make(map[string]bool, len(m.Nodes))
	for _, node := range m.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if ids[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}
		ids[node.ID] = true
	}

	for _, edge := range m.Edges {
		if !ids[edge.From] {
			return fmt.Errorf("edge %q references unknown node %q", edge.ID, edge.From)
		}
		if !ids[edge.To] {
			return fmt.Errorf("edge %q references unknown node %q", edge.ID, edge.To)
		}
	}

	return nil
}

// maxLeadLength bounds node labels taken from paragraph text.
const maxLeadLength = 80

// BuildHeuristic builds a deterministic mind map without a model: the
// report title becomes the root and each paragraph contributes one
// child node labeled with the paragraph's lead.
func BuildHeuristic(r report.FinalReport) (*Map, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	m := &Map{
		ID:        id,
		ReportID:  r.ID,
		CreatedAt: time.Now().UTC(),
	}

	rootLabel := strings.TrimSpace(r.Title)
	if rootLabel == "" {
		rootLabel = "Report"
	}
	root, err := m.addNode(rootLabel, 0)
	if err != nil {
		return nil, err
	}

	for _, paragraph := range report.Paragraphs(r.Content) {
		label := leadOf(paragraph)
		if label == "" {
			continue
		}
		node, err := m.addNode(label, 1)
		if err != nil {
			return nil, err
		}
		if err := m.addEdge(root.ID, node.ID); err != nil {
			return nil, err
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Map) addNode(label string, level int) (*Node, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	m.Nodes = append(m.Nodes, Node{ID: id, Label: label, Level: level})
	return &m.Nodes[len(m.Nodes)-1], nil
}

func (m *Map) addEdge(from, to string) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("nanoid: %w", err)
	}

	m.Edges = append(m.Edges, Edge{ID: id, From: from, To: to})
	return nil
}

// leadOf returns the first sentence of a paragraph, bounded in length,
// with citation markers removed.
func leadOf(paragraph string) string {
	text := strings.TrimSpace(stripCitations(paragraph))
	if text == "" {
		return ""
	}

	if idx := strings.IndexAny(text, ".!?"); idx > 0 {
		text = text[:idx]
	}

	if len(text) > maxLeadLength {
		cut := text[:maxLeadLength]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		text = cut
	}

	return strings.TrimSpace(text)
}

func stripCitations(text string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
