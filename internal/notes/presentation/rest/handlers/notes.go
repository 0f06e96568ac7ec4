package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
)

// AudioFormField is the multipart field carrying the recording
const AudioFormField = "file"

// NotesHandler exposes the notes service over HTTP.
// Every failure is answered with 500 and the error text as detail.
type NotesHandler struct {
	service core.NotesService
	logger  *slog.Logger
}

func NewNotesHandler(service core.NotesService, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{
		service: service,
		logger:  logger,
	}
}

// Record handles POST /record/
func (h *NotesHandler) Record(c *gin.Context) {
	header, err := c.FormFile(AudioFormField)
	if err != nil {
		h.fail(c, fmt.Errorf("missing audio upload: %w", err))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("failed to open uploaded audio: %w", err))
		return
	}
	defer file.Close()

	result, err := h.service.ProcessRecording(c.Request.Context(), core.RecordingInput{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Append handles POST /append/
func (h *NotesHandler) Append(c *gin.Context) {
	var data core.TranscriptionData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.fail(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.service.AppendTranscription(c.Request.Context(), data)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Transcriptions handles GET /transcripts/ with dates oldest first
func (h *NotesHandler) Transcriptions(c *gin.Context) {
	dates, err := h.service.ListDates(c.Request.Context(), core.SortAscending)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, TranscriptionsResponse{Transcriptions: dates})
}

// Dates handles GET /transcripts/dates with dates newest first
func (h *NotesHandler) Dates(c *gin.Context) {
	dates, err := h.service.ListDates(c.Request.Context(), core.SortDescending)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DatesResponse{Dates: dates})
}

// Summaries handles GET /transcripts/:date
func (h *NotesHandler) Summaries(c *gin.Context) {
	summaries, err := h.service.SummariesByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SummariesResponse{Summaries: summaries})
}

// Usage handles GET /usage/
func (h *NotesHandler) Usage(c *gin.Context) {
	summary, err := h.service.UsageSummary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		App:     core.AppName,
		Version: core.AppVersion,
	})
}

func (h *NotesHandler) fail(c *gin.Context, err error) {
	h.logger.ErrorContext(c.Request.Context(), "Request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error(),
	)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
}
