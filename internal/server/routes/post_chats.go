package routes

import (
	"errors"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/util"
	"github.com/scribe-research/backend/pkg/chat"
	"github.com/scribe-research/backend/pkg/logger"
)

// CreateChatHandler opens a new conversation. The session title is
// derived from the opening prompt, which is stored as the first user
// message when present.
func CreateChatHandler(c echo.Context) error {
	type createChatParams struct {
		Message string `json:"message"`
	}

	type createChatResponse struct {
		ID      string `json:"id,omitempty"`
		Title   string `json:"title,omitempty"`
		Message string `json:"message"`
	}

	params := new(createChatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, createChatResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, createChatResponse{Message: "Database not configured"})
	}

	publicID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate chat id", "err", err)
		return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	created, err := q.AddChat(ctx, db.AddChatParams{
		PublicID: publicID,
		Title:    util.SanitizeDBText(chat.BuildSessionTitle(params.Message)),
	})
	if err != nil {
		logger.Error("Failed to create chat", "err", err)
		return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
	}

	if params.Message != "" {
		msgID, err := gonanoid.New()
		if err != nil {
			logger.Error("Failed to generate message id", "err", err)
			return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
		}
		if _, err := q.AddChatMessage(ctx, db.AddChatMessageParams{
			ChatID:   created.ID,
			PublicID: msgID,
			Role:     string(chat.RoleUser),
			Content:  util.SanitizeDBText(params.Message),
		}); err != nil {
			logger.Error("Failed to store opening message", "chat_id", publicID, "err", err)
			return c.JSON(http.StatusInternalServerError, createChatResponse{Message: "Internal server error"})
		}
	}

	return c.JSON(http.StatusCreated, createChatResponse{
		ID:      created.PublicID,
		Title:   created.Title,
		Message: "Chat created",
	})
}

// AddChatMessageHandler appends a message to a conversation.
func AddChatMessageHandler(c echo.Context) error {
	type addMessageParams struct {
		ChatID   string              `param:"id" validate:"required"`
		Role     string              `json:"role" validate:"required"`
		Content  string              `json:"content" validate:"required"`
		Thinking []chat.ThinkingStep `json:"thinking"`
		ReportID string              `json:"report_id"`
	}

	type addMessageResponse struct {
		ID        string    `json:"id,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		Message   string    `json:"message"`
	}

	params := new(addMessageParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, addMessageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, addMessageResponse{Message: "Invalid request body"})
	}

	if !chat.Role(params.Role).Valid() {
		return c.JSON(http.StatusBadRequest, addMessageResponse{Message: "Invalid message role: " + params.Role})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, addMessageResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	session, err := q.GetChatByPublicID(ctx, params.ChatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, addMessageResponse{Message: "Chat not found"})
		}
		logger.Error("Failed to load chat", "chat_id", params.ChatID, "err", err)
		return c.JSON(http.StatusInternalServerError, addMessageResponse{Message: "Internal server error"})
	}

	msgID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate message id", "err", err)
		return c.JSON(http.StatusInternalServerError, addMessageResponse{Message: "Internal server error"})
	}

	thinking := []byte(nil)
	if len(params.Thinking) > 0 {
		thinking = []byte(util.ConvertStructToJson(params.Thinking))
	}

	msg, err := q.AddChatMessage(ctx, db.AddChatMessageParams{
		ChatID:   session.ID,
		PublicID: msgID,
		Role:     params.Role,
		Content:  util.SanitizeDBText(params.Content),
		Thinking: thinking,
		ReportID: params.ReportID,
	})
	if err != nil {
		logger.Error("Failed to store message", "chat_id", params.ChatID, "err", err)
		return c.JSON(http.StatusInternalServerError, addMessageResponse{Message: "Internal server error"})
	}

	if err := q.TouchChat(ctx, session.ID); err != nil {
		logger.Warn("Failed to touch chat", "chat_id", params.ChatID, "err", err)
	}

	return c.JSON(http.StatusCreated, addMessageResponse{
		ID:        msg.PublicID,
		CreatedAt: msg.CreatedAt,
		Message:   "Message added",
	})
}
