package server

import (
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Document routes
	apiRoutes.POST("/documents/extract", routes.ExtractDocumentsHandler)
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)

	// Report routes
	apiRoutes.POST("/reports", routes.CreateReportHandler)
	apiRoutes.GET("/reports", routes.GetReportsHandler)
	apiRoutes.GET("/reports/:id", routes.GetReportHandler)
	apiRoutes.GET("/reports/:id/plain", routes.GetReportPlainHandler)
	apiRoutes.DELETE("/reports/:id", routes.DeleteReportHandler)

	// Mind map routes
	apiRoutes.POST("/reports/:id/mindmap", routes.CreateMindMapHandler)
	apiRoutes.GET("/reports/:id/mindmap", routes.GetMindMapHandler)

	// Chat routes
	apiRoutes.GET("/chats", routes.GetChatsHandler)
	apiRoutes.POST("/chats", routes.CreateChatHandler)
	apiRoutes.GET("/chats/:id", routes.GetChatHandler)
	apiRoutes.DELETE("/chats/:id", routes.DeleteChatHandler)
	apiRoutes.POST("/chats/:id/messages", routes.AddChatMessageHandler)

	// Source preview routes
	apiRoutes.GET("/sources/preview", routes.GetSourcePreviewHandler)
}
