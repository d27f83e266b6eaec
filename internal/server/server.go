package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/queue"
	mid "github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/storage"
	"github.com/scribe-research/backend/internal/util"
	"github.com/scribe-research/backend/pkg/ai"
	"github.com/scribe-research/backend/pkg/ai/openai"
	"github.com/scribe-research/backend/pkg/ingest"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/sources"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/lib/pq"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if err := db.RunMigrations("file://migrations", databaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	if err := queue.SetupQueues(ch, []string{queue.MindMapQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	s3 := storage.NewS3Client(ctx)

	var aiClient ai.Client
	if client := openai.NewClient(openai.NewClientParams{
		Model:   util.GetEnv("AI_CHAT_MODEL"),
		BaseURL: util.GetEnv("AI_CHAT_URL"),
		APIKey:  util.GetEnv("AI_CHAT_KEY"),
	}); client != nil {
		aiClient = client
	}

	maxUpload := util.GetEnvInt("MAX_UPLOAD_BYTES", ingest.DefaultMaxFileSize)
	app := &mid.App{
		DBConn:       conn,
		Queue:        ch,
		S3:           s3,
		AiClient:     aiClient,
		Ingest:       ingest.NewService(ingest.WithMaxFileSize(maxUpload)),
		Previews:     sources.NewFetcher(nil),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(util.GetEnvString("BODY_LIMIT", "100M")))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
