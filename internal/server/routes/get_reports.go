package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/report"
)

// loadReport assembles the domain report from its stored rows.
func loadReport(ctx context.Context, q *db.Queries, publicID string) (report.FinalReport, error) {
	rep, err := q.GetReportByPublicID(ctx, publicID)
	if err != nil {
		return report.FinalReport{}, err
	}

	rows, err := q.GetReportSources(ctx, rep.ID)
	if err != nil {
		return report.FinalReport{}, err
	}

	sources := make([]report.Source, 0, len(rows))
	for _, row := range rows {
		src := report.Source{
			ID:      row.PublicID,
			Type:    report.SourceType(row.Type),
			Title:   row.Title,
			Content: row.Content,
			URL:     row.URL,
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &src.Metadata); err != nil {
				logger.Warn("Failed to decode source metadata", "source_id", row.PublicID, "err", err)
			}
		}
		sources = append(sources, src)
	}

	return report.FinalReport{
		ID:         rep.PublicID,
		Title:      rep.Title,
		Content:    rep.Content,
		Sources:    sources,
		WordCount:  int(rep.WordCount),
		TokenCount: int(rep.TokenCount),
		CreatedAt:  rep.CreatedAt,
		UpdatedAt:  rep.UpdatedAt,
	}, nil
}

// GetReportsHandler lists stored reports without their bodies.
func GetReportsHandler(c echo.Context) error {
	type reportItem struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		WordCount int32     `json:"word_count"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	type reportsResponse struct {
		Reports []reportItem `json:"reports"`
		Message string       `json:"message,omitempty"`
	}

	type reportsParams struct {
		Limit int32 `query:"limit"`
	}

	params := new(reportsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, reportsResponse{Message: "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, reportsResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	reps, err := q.GetReports(ctx, params.Limit)
	if err != nil {
		logger.Error("Failed to list reports", "err", err)
		return c.JSON(http.StatusInternalServerError, reportsResponse{Message: "Internal server error"})
	}

	items := make([]reportItem, 0, len(reps))
	for _, rep := range reps {
		items = append(items, reportItem{
			ID:        rep.PublicID,
			Title:     rep.Title,
			WordCount: rep.WordCount,
			CreatedAt: rep.CreatedAt,
			UpdatedAt: rep.UpdatedAt,
		})
	}

	return c.JSON(http.StatusOK, reportsResponse{Reports: items})
}

// GetReportHandler returns the formatted view of one report: spaced
// citations, paragraphs, source stats and link kinds.
func GetReportHandler(c echo.Context) error {
	type reportParams struct {
		ID string `param:"id" validate:"required"`
	}

	type errorResponse struct {
		Message string `json:"message"`
	}

	params := new(reportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rep, err := loadReport(ctx, q, params.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorResponse{Message: "Report not found"})
		}
		logger.Error("Failed to load report", "report_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, report.Format(rep))
}

// GetReportPlainHandler returns the copyable plain-text rendition.
func GetReportPlainHandler(c echo.Context) error {
	type reportParams struct {
		ID string `param:"id" validate:"required"`
	}

	type errorResponse struct {
		Message string `json:"message"`
	}

	params := new(reportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rep, err := loadReport(ctx, q, params.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorResponse{Message: "Report not found"})
		}
		logger.Error("Failed to load report", "report_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}

	return c.String(http.StatusOK, report.PlainText(rep))
}
