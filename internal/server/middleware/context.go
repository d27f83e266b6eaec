package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/scribe-research/backend/pkg/ai"
	"github.com/scribe-research/backend/pkg/ingest"
	"github.com/scribe-research/backend/pkg/sources"
)

// App bundles the shared clients handlers reach through the request
// context. DBConn, Queue and S3 may be nil when the corresponding
// backend is not configured; handlers degrade accordingly.
type App struct {
	DBConn       *pgxpool.Pool
	Queue        *amqp091.Channel
	S3           *s3.Client
	AiClient     ai.Client
	Ingest       *ingest.Service
	Previews     *sources.Fetcher
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
