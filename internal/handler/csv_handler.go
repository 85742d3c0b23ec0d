package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thumbgrab/thumbnail-service-go/internal/ingest"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// Content types accepted for bulk uploads. Browsers disagree on what a CSV
// is, so the extension check is the authoritative one.
var acceptedCSVContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
	"application/octet-stream": true,
	"":                         true,
}

// CSVHandler parses bulk CSV uploads into row-level results.
type CSVHandler struct {
	ingester *ingest.Ingester
}

func NewCSVHandler(ingester *ingest.Ingester) *CSVHandler {
	return &CSVHandler{ingester: ingester}
}

// Upload accepts a multipart CSV file and returns the per-row parse result.
// The file is validated before any row is read.
func (h *CSVHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Missing file upload: expected multipart field \"file\"")
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		sendError(c, http.StatusBadRequest, "Bad Request", "Only .csv files are accepted")
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); !acceptedCSVContentTypes[ct] {
		sendError(c, http.StatusBadRequest, "Bad Request", "Unsupported content type: "+ct)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.ingester.Parse(file)
	if err != nil {
		var tooLarge *ingest.FileTooLargeError
		var empty *ingest.EmptyFileError
		switch {
		case errors.As(err, &tooLarge):
			sendError(c, http.StatusBadRequest, "Bad Request", tooLarge.Error())
		case errors.As(err, &empty):
			sendError(c, http.StatusBadRequest, "Bad Request", empty.Error())
		default:
			logger.Log.Error("Failed to parse CSV upload",
				zap.Error(err),
				zap.String("filename", fileHeader.Filename),
			)
			sendError(c, http.StatusBadRequest, "Bad Request", "Malformed CSV file")
		}
		return
	}

	logger.Log.Info("Parsed CSV upload",
		zap.String("filename", fileHeader.Filename),
		zap.Int("rows", result.RawCount),
		zap.Int("valid", result.ValidCount),
		zap.Int("invalid", result.InvalidCount),
	)

	c.JSON(http.StatusOK, result)
}
