package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/storage"
	"github.com/scribe-research/backend/pkg/logger"
)

// DeleteDocumentHandler removes a processed document and its stored original.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteDocumentResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteDocumentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "Invalid request params"})
	}

	params.ID = strings.TrimSpace(params.ID)
	if params.ID == "" {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "id is required"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, deleteDocumentResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	doc, err := q.GetDocumentByPublicID(ctx, params.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, deleteDocumentResponse{Message: "Document not found"})
		}
		logger.Error("Failed to load document", "document_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{Message: "Internal server error"})
	}

	if _, err := q.DeleteDocumentByPublicID(ctx, params.ID); err != nil {
		logger.Error("Failed to delete document", "document_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{Message: "Internal server error"})
	}

	if app.S3 != nil && doc.FileKey != "" {
		if err := storage.DeleteFile(ctx, app.S3, doc.FileKey); err != nil {
			logger.Warn("Failed to delete stored original", "key", doc.FileKey, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{Message: "Document deleted successfully"})
}
