package mindmap

import (
	"context"
	"testing"

	"github.com/scribe-research/backend/pkg/ai"
	"github.com/scribe-research/backend/pkg/report"
)

func TestBuildHeuristic(t *testing.T) {
	r := report.FinalReport{
		ID:    "rep_1",
		Title: "Coral Bleaching",
		Content: "Rising sea temperatures stress corals [1]. More detail follows.\n\n" +
			"Ocean acidification weakens skeletons [2]. Even more detail.",
	}

	m, err := BuildHeuristic(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid map: %v", err)
	}

	if m.ReportID != "rep_1" {
		t.Fatalf("unexpected report id: %q", m.ReportID)
	}
	if len(m.Nodes) != 3 {
		t.Fatalf("expected root plus 2 paragraph nodes, got %d", len(m.Nodes))
	}
	if m.Nodes[0].Label != "Coral Bleaching" || m.Nodes[0].Level != 0 {
		t.Fatalf("unexpected root node: %+v", m.Nodes[0])
	}
	if m.Nodes[1].Label != "Rising sea temperatures stress corals" {
		t.Fatalf("citation markers must be stripped from leads, got %q", m.Nodes[1].Label)
	}
	if len(m.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(m.Edges))
	}
	for _, edge := range m.Edges {
		if edge.From != m.Nodes[0].ID {
			t.Fatalf("all heuristic edges start at the root, got %+v", edge)
		}
	}
}

func TestBuildHeuristicUntitled(t *testing.T) {
	m, err := BuildHeuristic(report.FinalReport{ID: "rep_2", Content: "single finding here."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Nodes[0].Label != "Report" {
		t.Fatalf("expected fallback root label, got %q", m.Nodes[0].Label)
	}
}

func TestLeadOf(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first sentence", "First claim. Second claim.", "First claim"},
		{"citation stripped", "Finding[12] holds. More.", "Finding holds"},
		{"no terminator", "just a fragment", "just a fragment"},
		{"empty after strip", "[1][2]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leadOf(tt.in); got != tt.want {
				t.Fatalf("leadOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	m := &Map{
		Nodes: []Node{{ID: "a", Label: "root"}, {ID: "b", Label: "child", Level: 1}},
		Edges: []Edge{{ID: "e1", From: "a", To: "b"}},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &Map{Nodes: []Node{{ID: "a"}, {ID: "a"}}}
	if err := dup.Validate(); err == nil {
		t.Fatal("expected duplicate node id to fail validation")
	}

	dangling := &Map{
		Nodes: []Node{{ID: "a"}},
		Edges: []Edge{{ID: "e1", From: "a", To: "missing"}},
	}
	if err := dangling.Validate(); err == nil {
		t.Fatal("expected dangling edge to fail validation")
	}
}

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	if f.err != nil {
		return f.err
	}
	return ai.UnmarshalFlexible(f.response, out)
}

func (f *fakeClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }
func (f *fakeClient) ResetMetrics()               {}

func TestBuildWithModel(t *testing.T) {
	client := &fakeClient{
		response: `{
			"root": "Coral Bleaching",
			"branches": [
				{"label": "Causes", "children": ["Warming", "Acidification"]},
				{"label": "Effects", "children": []}
			]
		}`,
	}

	m, err := BuildWithModel(context.Background(), client, ReportInput{
		ID:      "rep_1",
		Title:   "Coral Bleaching",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid map: %v", err)
	}

	if len(m.Nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(m.Nodes))
	}
	if len(m.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(m.Edges))
	}

	levels := map[int]int{}
	for _, node := range m.Nodes {
		levels[node.Level]++
	}
	if levels[0] != 1 || levels[1] != 2 || levels[2] != 2 {
		t.Fatalf("unexpected level distribution: %v", levels)
	}
}
