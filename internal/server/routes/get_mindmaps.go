package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/mindmap"
)

// GetMindMapHandler returns the latest mind-map job for a report,
// including the generated graph once the job is done.
func GetMindMapHandler(c echo.Context) error {
	type mindMapParams struct {
		ReportID string `param:"id" validate:"required"`
	}

	type mindMapResponse struct {
		ID      string         `json:"id,omitempty"`
		Status  string         `json:"status,omitempty"`
		Error   string         `json:"error,omitempty"`
		Nodes   []mindmap.Node `json:"nodes,omitempty"`
		Edges   []mindmap.Edge `json:"edges,omitempty"`
		Message string         `json:"message,omitempty"`
	}

	params := new(mindMapParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, mindMapResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, mindMapResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, mindMapResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rep, err := q.GetReportByPublicID(ctx, params.ReportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, mindMapResponse{Message: "Report not found"})
		}
		logger.Error("Failed to load report", "report_id", params.ReportID, "err", err)
		return c.JSON(http.StatusInternalServerError, mindMapResponse{Message: "Internal server error"})
	}

	m, err := q.GetMindMapByReportID(ctx, rep.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, mindMapResponse{Message: "No mind map for this report"})
		}
		logger.Error("Failed to load mind map", "report_id", params.ReportID, "err", err)
		return c.JSON(http.StatusInternalServerError, mindMapResponse{Message: "Internal server error"})
	}

	resp := mindMapResponse{
		ID:     m.PublicID,
		Status: m.Status,
		Error:  m.Error,
	}

	if m.Status == string(mindmap.StatusDone) {
		if len(m.Nodes) > 0 {
			if err := json.Unmarshal(m.Nodes, &resp.Nodes); err != nil {
				logger.Warn("Failed to decode mind map nodes", "mindmap_id", m.PublicID, "err", err)
			}
		}
		if len(m.Edges) > 0 {
			if err := json.Unmarshal(m.Edges, &resp.Edges); err != nil {
				logger.Warn("Failed to decode mind map edges", "mindmap_id", m.PublicID, "err", err)
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}
