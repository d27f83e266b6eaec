package routes

import (
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/util"
	"github.com/scribe-research/backend/pkg/ingest"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/report"
)

// CreateReportHandler stores a report assembled by the research
// pipeline together with its ordered source list.
func CreateReportHandler(c echo.Context) error {
	type sourceParams struct {
		Type     string            `json:"type" validate:"required"`
		Title    string            `json:"title"`
		Content  string            `json:"content"`
		URL      string            `json:"url"`
		Metadata map[string]string `json:"metadata"`
	}

	type createReportParams struct {
		Title   string         `json:"title"`
		Content string         `json:"content" validate:"required"`
		Sources []sourceParams `json:"sources"`
	}

	type createReportResponse struct {
		ID      string `json:"id,omitempty"`
		Message string `json:"message"`
	}

	params := new(createReportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, createReportResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, createReportResponse{Message: "Invalid request body"})
	}

	for _, src := range params.Sources {
		if !report.SourceType(src.Type).Valid() {
			return c.JSON(http.StatusBadRequest, createReportResponse{Message: "Invalid source type: " + src.Type})
		}
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, createReportResponse{Message: "Database not configured"})
	}

	publicID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate report id", "err", err)
		return c.JSON(http.StatusInternalServerError, createReportResponse{Message: "Internal server error"})
	}

	content := strings.TrimSpace(params.Content)

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rep, err := q.AddReport(ctx, db.AddReportParams{
		PublicID:   publicID,
		Title:      strings.TrimSpace(params.Title),
		Content:    util.SanitizeDBText(content),
		WordCount:  int32(ingest.CountWords(content)),
		TokenCount: int32(ingest.CountTokens(content)),
	})
	if err != nil {
		logger.Error("Failed to store report", "err", err)
		return c.JSON(http.StatusInternalServerError, createReportResponse{Message: "Internal server error"})
	}

	for i, src := range params.Sources {
		srcID, err := gonanoid.New()
		if err != nil {
			logger.Error("Failed to generate source id", "err", err)
			return c.JSON(http.StatusInternalServerError, createReportResponse{Message: "Internal server error"})
		}

		metadata := []byte(nil)
		if src.Metadata != nil {
			metadata = []byte(util.ConvertStructToJson(src.Metadata))
		}

		if _, err := q.AddReportSource(ctx, db.AddReportSourceParams{
			ReportID: rep.ID,
			PublicID: srcID,
			Position: int32(i),
			Type:     src.Type,
			Title:    src.Title,
			Content:  util.SanitizeDBText(src.Content),
			URL:      src.URL,
			Metadata: metadata,
		}); err != nil {
			logger.Error("Failed to store report source", "report_id", publicID, "err", err)
			return c.JSON(http.StatusInternalServerError, createReportResponse{Message: "Internal server error"})
		}
	}

	return c.JSON(http.StatusCreated, createReportResponse{ID: publicID, Message: "Report created"})
}
