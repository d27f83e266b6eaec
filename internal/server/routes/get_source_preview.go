package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/sources"
)

// GetSourcePreviewHandler fetches the readable text of a url-type
// source for the report view.
func GetSourcePreviewHandler(c echo.Context) error {
	type previewParams struct {
		URL string `query:"url" validate:"required"`
	}

	type previewResponse struct {
		Preview *sources.Preview `json:"preview,omitempty"`
		Message string           `json:"message,omitempty"`
	}

	params := new(previewParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{Message: "url query parameter is required"})
	}

	app := c.(*middleware.AppContext).App
	fetcher := app.Previews
	if fetcher == nil {
		fetcher = sources.NewFetcher(nil)
	}

	preview, err := fetcher.Fetch(c.Request().Context(), params.URL)
	if err != nil {
		logger.Warn("Failed to fetch source preview", "url", params.URL, "err", err)
		return c.JSON(http.StatusBadGateway, previewResponse{Message: "Failed to fetch source"})
	}

	return c.JSON(http.StatusOK, previewResponse{Preview: preview})
}
