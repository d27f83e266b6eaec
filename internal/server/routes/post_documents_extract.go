package routes

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"

	"github.com/scribe-research/backend/internal/db"
	"github.com/scribe-research/backend/internal/server/middleware"
	"github.com/scribe-research/backend/internal/storage"
	"github.com/scribe-research/backend/internal/util"
	"github.com/scribe-research/backend/pkg/ingest"
	"github.com/scribe-research/backend/pkg/logger"
)

// ExtractDocumentsHandler ingests a multipart batch of documents and
// returns one result per file in upload order. A failed file never
// aborts the batch. When database and object storage are configured,
// results and successful originals are persisted.
func ExtractDocumentsHandler(c echo.Context) error {
	type extractedFile struct {
		ID string `json:"id,omitempty"`
		ingest.ProcessedFile
	}

	type extractResponse struct {
		Files   []extractedFile `json:"files"`
		Message string          `json:"message,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, extractResponse{Message: "Invalid multipart request"})
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, extractResponse{Message: "No files provided"})
	}

	app := c.(*middleware.AppContext).App
	svc := app.Ingest
	if svc == nil {
		svc = ingest.NewService()
	}

	inputs := make([]ingest.InputFile, 0, len(uploads))
	readErrs := make([]error, len(uploads))
	for i, upload := range uploads {
		input := ingest.InputFile{
			Name:        upload.Filename,
			Size:        upload.Size,
			ContentType: upload.Header.Get("Content-Type"),
		}

		src, err := upload.Open()
		if err != nil {
			readErrs[i] = err
		} else {
			content, readErr := io.ReadAll(src)
			src.Close()
			if readErr != nil {
				readErrs[i] = readErr
			} else {
				input.Content = content
			}
		}

		inputs = append(inputs, input)
	}

	ctx := c.Request().Context()
	results := svc.ProcessBatch(ctx, inputs)
	markUnreadableUploads(results, inputs, readErrs)

	files := make([]extractedFile, 0, len(results))
	for i, result := range results {
		file := extractedFile{ProcessedFile: result}

		if app.DBConn != nil {
			publicID, err := gonanoid.New()
			if err != nil {
				logger.Error("Failed to generate document id", "err", err)
				files = append(files, file)
				continue
			}
			file.ID = publicID

			fileKey := ""
			if app.S3 != nil && result.Success {
				key, err := storage.PutFile(ctx, app.S3, "documents", result.Name, publicID, bytes.NewReader(inputs[i].Content))
				if err != nil {
					logger.Error("Failed to upload document original", "name", result.Name, "err", err)
				} else {
					fileKey = key
				}
			}

			q := db.New(app.DBConn)
			if _, err := q.AddDocument(ctx, db.AddDocumentParams{
				PublicID:    publicID,
				Name:        result.Name,
				ContentType: result.ContentType,
				Size:        result.Size,
				Content:     util.SanitizeDBText(result.Content),
				WordCount:   int32(result.WordCount),
				TokenCount:  int32(result.TokenCount),
				Success:     result.Success,
				Error:       result.Error,
				FileKey:     fileKey,
			}); err != nil {
				logger.Error("Failed to store document record", "name", result.Name, "err", err)
			}
		}

		files = append(files, file)
	}

	return c.JSON(http.StatusOK, extractResponse{Files: files})
}

// markUnreadableUploads replaces the result of any file whose bytes
// could not be read with a failed entry. A file that cannot be read
// must never report a successful extraction, and the rest of the
// batch is unaffected.
func markUnreadableUploads(results []ingest.ProcessedFile, inputs []ingest.InputFile, readErrs []error) {
	for i, readErr := range readErrs {
		if readErr == nil {
			continue
		}
		results[i] = ingest.ProcessedFile{
			Name:        inputs[i].Name,
			Size:        inputs[i].Size,
			ContentType: inputs[i].ContentType,
			Error:       fmt.Sprintf("failed to read uploaded file: %v", readErr),
		}
	}
}
