package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
)

// DeleteChatHandler removes a conversation and its messages.
func DeleteChatHandler(c echo.Context) error {
	type deleteChatParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteChatResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteChatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}

	params.ID = strings.TrimSpace(params.ID)
	if params.ID == "" {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "id is required"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, deleteChatResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	rowsAffected, err := q.DeleteChatByPublicID(ctx, params.ID)
	if err != nil {
		logger.Error("Failed to delete chat", "chat_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteChatResponse{Message: "Internal server error"})
	}

	if rowsAffected == 0 {
		return c.JSON(http.StatusNotFound, deleteChatResponse{Message: "Chat not found"})
	}

	return c.JSON(http.StatusOK, deleteChatResponse{Message: "Chat deleted successfully"})
}
