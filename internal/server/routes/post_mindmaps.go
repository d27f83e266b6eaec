package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/queue"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/mindmap"
)

// CreateMindMapHandler enqueues an asynchronous mind-map generation
// job for a report and returns the job in pending state. The client
// polls the GET route for progress.
func CreateMindMapHandler(c echo.Context) error {
	type createMindMapParams struct {
		ReportID string `param:"id" validate:"required"`
	}

	type createMindMapResponse struct {
		ID      string `json:"id,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message"`
	}

	params := new(createMindMapParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, createMindMapResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, createMindMapResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil || app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, createMindMapResponse{Message: "Mind map generation not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rep, err := q.GetReportByPublicID(ctx, params.ReportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, createMindMapResponse{Message: "Report not found"})
		}
		logger.Error("Failed to load report", "report_id", params.ReportID, "err", err)
		return c.JSON(http.StatusInternalServerError, createMindMapResponse{Message: "Internal server error"})
	}

	publicID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate mind map id", "err", err)
		return c.JSON(http.StatusInternalServerError, createMindMapResponse{Message: "Internal server error"})
	}

	m, err := q.AddMindMap(ctx, db.AddMindMapParams{
		PublicID: publicID,
		ReportID: rep.ID,
		Status:   string(mindmap.StatusPending),
	})
	if err != nil {
		logger.Error("Failed to create mind map job", "report_id", params.ReportID, "err", err)
		return c.JSON(http.StatusInternalServerError, createMindMapResponse{Message: "Internal server error"})
	}

	msg, err := json.Marshal(queue.MindMapJobMsg{
		MindMapID: m.PublicID,
		ReportID:  rep.PublicID,
	})
	if err != nil {
		logger.Error("Failed to marshal mind map job", "err", err)
		return c.JSON(http.StatusInternalServerError, createMindMapResponse{Message: "Internal server error"})
	}

	if err := queue.PublishFIFO(app.Queue, queue.MindMapQueue, msg); err != nil {
		logger.Error("Failed to enqueue mind map job", "mindmap_id", m.PublicID, "err", err)
		if updateErr := q.UpdateMindMapStatus(ctx, db.UpdateMindMapStatusParams{
			PublicID: m.PublicID,
			Status:   string(mindmap.StatusError),
			Error:    "failed to enqueue job",
		}); updateErr != nil {
			logger.Warn("Failed to mark mind map as failed", "mindmap_id", m.PublicID, "err", updateErr)
		}
		return c.JSON(http.StatusInternalServerError, createMindMapResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, createMindMapResponse{
		ID:      m.PublicID,
		Status:  m.Status,
		Message: "Mind map generation started",
	})
}
