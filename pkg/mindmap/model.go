package mindmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/scribe-research/backend/pkg/ai"
)

const extractionSystemPrompt = `You are an assistant that turns research reports into mind maps.
Extract the main topics and their subtopics from the report.
Keep labels short (at most 8 words). Do not invent topics that are not in the report.`

type extractedMap struct {
	Root     string `json:"root" jsonschema_description:"Central topic of the report"`
	Branches []struct {
		Label    string   `json:"label" jsonschema_description:"Main topic"`
		Children []string `json:"children" jsonschema_description:"Subtopics of this topic"`
	} `json:"branches" jsonschema_description:"Main topics with their subtopics"`
}

// ReportInput is the minimal report shape the model builder needs.
type ReportInput struct {
	ID      string
	Title   string
	Content string
}

// BuildWithModel asks the model for a structured topic extraction and
// converts it into a mind map. The caller falls back to BuildHeuristic
// when no model backend is configured or extraction fails.
func BuildWithModel(ctx context.Context, client ai.Client, r ReportInput) (*Map, error) {
	prompt := fmt.Sprintf("Title: %s\n\nReport:\n%s", r.Title, r.Content)

	var extracted extractedMap
	err := client.GenerateCompletionWithFormat(
		ctx,
		"mind_map",
		"Mind map topics extracted from a research report",
		prompt,
		&extracted,
		ai.WithSystemPrompts(extractionSystemPrompt),
		ai.WithTemperature(0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("mind map extraction: %w", err)
	}

	return fromExtracted(r.ID, r.Title, extracted)
}

func fromExtracted(reportID, title string, extracted extractedMap) (*Map, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	m := &Map{
		ID:        id,
		ReportID:  reportID,
		CreatedAt: time.Now().UTC(),
	}

	rootLabel := strings.TrimSpace(extracted.Root)
	if rootLabel == "" {
		rootLabel = strings.TrimSpace(title)
	}
	if rootLabel == "" {
		rootLabel = "Report"
	}
	root, err := m.addNode(rootLabel, 0)
	if err != nil {
		return nil, err
	}

	for _, branch := range extracted.Branches {
		label := strings.TrimSpace(branch.Label)
		if label == "" {
			continue
		}
		branchNode, err := m.addNode(label, 1)
		if err != nil {
			return nil, err
		}
		if err := m.addEdge(root.ID, branchNode.ID); err != nil {
			return nil, err
		}

		for _, child := range branch.Children {
			childLabel := strings.TrimSpace(child)
			if childLabel == "" {
				continue
			}
			childNode, err := m.addNode(childLabel, 2)
			if err != nil {
				return nil, err
			}
			if err := m.addEdge(branchNode.ID, childNode.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}
