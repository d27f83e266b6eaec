package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
)

// DeleteReportHandler removes a report, its sources, and its mind maps.
func DeleteReportHandler(c echo.Context) error {
	type deleteReportParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteReportResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteReportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteReportResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteReportResponse{Message: "Invalid request params"})
	}

	params.ID = strings.TrimSpace(params.ID)
	if params.ID == "" {
		return c.JSON(http.StatusBadRequest, deleteReportResponse{Message: "id is required"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, deleteReportResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rowsAffected, err := q.DeleteReportByPublicID(ctx, params.ID)
	if err != nil {
		logger.Error("Failed to delete report", "report_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteReportResponse{Message: "Internal server error"})
	}

	if rowsAffected == 0 {
		return c.JSON(http.StatusNotFound, deleteReportResponse{Message: "Report not found"})
	}

	return c.JSON(http.StatusOK, deleteReportResponse{Message: "Report deleted successfully"})
}
