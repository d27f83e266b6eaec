package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/pkg/ai"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/mindmap"
	"github.com/scribe-research/backend/pkg/report"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MindMapJobMsg is the payload published to MindMapQueue.
type MindMapJobMsg struct {
	MindMapID string `json:"mindmap_id"`
	ReportID  string `json:"report_id"`
}

// ProcessMindMapMessage builds the mind map for one job. The model
// builder is used when a client is configured and falls back to the
// deterministic heuristic on failure.
func ProcessMindMapMessage(
	ctx context.Context,
	aiClient ai.Client,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(MindMapJobMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to unmarshal mind map job: %w", err)
	}

	q := db.New(conn)

	defer func() {
		if err == nil || data.MindMapID == "" {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := q.UpdateMindMapStatus(updateCtx, db.UpdateMindMapStatusParams{
			PublicID: data.MindMapID,
			Status:   string(mindmap.StatusError),
			Error:    err.Error(),
		}); updateErr != nil {
			logger.Warn("[Queue] Failed to mark mind map as failed", "mindmap_id", data.MindMapID, "err", updateErr)
		}
	}()

	if err = q.UpdateMindMapStatus(ctx, db.UpdateMindMapStatusParams{
		PublicID: data.MindMapID,
		Status:   string(mindmap.StatusProcessing),
	}); err != nil {
		return fmt.Errorf("failed to mark mind map as processing: %w", err)
	}

	rep, err := q.GetReportByPublicID(ctx, data.ReportID)
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", data.ReportID, err)
	}

	m, err := buildMap(ctx, aiClient, rep)
	if err != nil {
		return err
	}

	nodes, err := json.Marshal(m.Nodes)
	if err != nil {
		return fmt.Errorf("failed to marshal nodes: %w", err)
	}
	edges, err := json.Marshal(m.Edges)
	if err != nil {
		return fmt.Errorf("failed to marshal edges: %w", err)
	}

	if err = q.SetMindMapResult(ctx, db.SetMindMapResultParams{
		PublicID: data.MindMapID,
		Status:   string(mindmap.StatusDone),
		Nodes:    nodes,
		Edges:    edges,
	}); err != nil {
		return fmt.Errorf("failed to store mind map result: %w", err)
	}

	logger.Info("[Queue] Mind map generated", "mindmap_id", data.MindMapID, "report_id", data.ReportID, "nodes", len(m.Nodes))
	return nil
}

func buildMap(ctx context.Context, aiClient ai.Client, rep db.Report) (*mindmap.Map, error) {
	if aiClient != nil {
		m, err := mindmap.BuildWithModel(ctx, aiClient, mindmap.ReportInput{
			ID:      rep.PublicID,
			Title:   rep.Title,
			Content: rep.Content,
		})
		if err == nil {
			return m, nil
		}
		logger.Warn("[Queue] Model extraction failed, using heuristic", "report_id", rep.PublicID, "err", err)
	}

	return mindmap.BuildHeuristic(report.FinalReport{
		ID:      rep.PublicID,
		Title:   rep.Title,
		Content: rep.Content,
	})
}
