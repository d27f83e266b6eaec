package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/ingest"
	"github.com/scribe-research/backend/pkg/logger"
)

// GetDocumentsHandler lists processed documents, newest first. The
// extracted content itself is not returned here, only the per-file
// outcome and stats.
func GetDocumentsHandler(c echo.Context) error {
	type documentItem struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		ContentType string    `json:"content_type"`
		Size        int64     `json:"size"`
		SizeLabel   string    `json:"size_label"`
		WordCount   int32     `json:"word_count"`
		TokenCount  int32     `json:"token_count"`
		Success     bool      `json:"success"`
		Error       string    `json:"error,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	type documentsResponse struct {
		Documents []documentItem `json:"documents"`
		Message   string         `json:"message,omitempty"`
	}

	type documentsParams struct {
		Limit int32 `query:"limit"`
	}

	params := new(documentsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, documentsResponse{Message: "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, documentsResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	docs, err := q.GetDocuments(ctx, params.Limit)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, documentsResponse{Message: "Internal server error"})
	}

	items := make([]documentItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, documentItem{
			ID:          doc.PublicID,
			Name:        doc.Name,
			ContentType: doc.ContentType,
			Size:        doc.Size,
			SizeLabel:   ingest.FormatBytes(doc.Size),
			WordCount:   doc.WordCount,
			TokenCount:  doc.TokenCount,
			Success:     doc.Success,
			Error:       doc.Error,
			CreatedAt:   doc.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, documentsResponse{Documents: items})
}
