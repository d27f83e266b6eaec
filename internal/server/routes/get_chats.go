package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/chat"
	"github.com/scribe-research/backend/pkg/logger"
)

// GetChatsHandler lists conversations, most recently active first.
func GetChatsHandler(c echo.Context) error {
	type chatItem struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	type chatsResponse struct {
		Chats   []chatItem `json:"chats"`
		Message string     `json:"message,omitempty"`
	}

	type chatsParams struct {
		Limit int32 `query:"limit"`
	}

	params := new(chatsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, chatsResponse{Message: "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, chatsResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	chats, err := q.GetChats(ctx, params.Limit)
	if err != nil {
		logger.Error("Failed to list chats", "err", err)
		return c.JSON(http.StatusInternalServerError, chatsResponse{Message: "Internal server error"})
	}

	items := make([]chatItem, 0, len(chats))
	for _, session := range chats {
		items = append(items, chatItem{
			ID:        session.PublicID,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}

	return c.JSON(http.StatusOK, chatsResponse{Chats: items})
}

// GetChatHandler returns one conversation with its messages in
// insertion order.
func GetChatHandler(c echo.Context) error {
	type chatParams struct {
		ID string `param:"id" validate:"required"`
	}

	type messageItem struct {
		ID        string              `json:"id"`
		Role      string              `json:"role"`
		Content   string              `json:"content"`
		Thinking  []chat.ThinkingStep `json:"thinking,omitempty"`
		ReportID  string              `json:"report_id,omitempty"`
		CreatedAt time.Time           `json:"created_at"`
	}

	type chatResponse struct {
		ID        string        `json:"id,omitempty"`
		Title     string        `json:"title,omitempty"`
		Messages  []messageItem `json:"messages,omitempty"`
		CreatedAt time.Time     `json:"created_at,omitempty"`
		UpdatedAt time.Time     `json:"updated_at,omitempty"`
		Message   string        `json:"message,omitempty"`
	}

	params := new(chatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.DBConn == nil {
		return c.JSON(http.StatusServiceUnavailable, chatResponse{Message: "Database not configured"})
	}

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	session, err := q.GetChatByPublicID(ctx, params.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, chatResponse{Message: "Chat not found"})
		}
		logger.Error("Failed to load chat", "chat_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
	}

	msgs, err := q.GetChatMessages(ctx, session.ID)
	if err != nil {
		logger.Error("Failed to load chat messages", "chat_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
	}

	items := make([]messageItem, 0, len(msgs))
	for _, msg := range msgs {
		item := messageItem{
			ID:        msg.PublicID,
			Role:      msg.Role,
			Content:   msg.Content,
			ReportID:  msg.ReportID,
			CreatedAt: msg.CreatedAt,
		}
		if len(msg.Thinking) > 0 {
			if err := json.Unmarshal(msg.Thinking, &item.Thinking); err != nil {
				logger.Warn("Failed to decode thinking steps", "message_id", msg.PublicID, "err", err)
			}
		}
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, chatResponse{
		ID:        session.PublicID,
		Title:     session.Title,
		Messages:  items,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	})
}
