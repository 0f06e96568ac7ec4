package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"github.com/izzddalfk/fabnotes/internal/notes/presentation/rest/handlers"
	"gopkg.in/validator.v2"
)

//go:embed all:static
var staticFS embed.FS

const shutdownTimeout = 15 * time.Second

type Server struct {
	notesService core.NotesService
	limiter      RequestLimiter
	logger       *slog.Logger
	port         string
	readTimeout  time.Duration
	writeTimeout time.Duration

	router *gin.Engine
}

type ServerConfig struct {
	NotesService core.NotesService `validate:"nonnil"`
	Logger       *slog.Logger      `validate:"nonnil"`
	Port         string            `validate:"nonzero"`
	ReadTimeout  time.Duration     `validate:"nonzero"`
	WriteTimeout time.Duration     `validate:"nonzero"`

	// RecordLimiter throttles POST /record/ per client, nil disables it
	RecordLimiter RequestLimiter
}

func NewServer(config ServerConfig) (*Server, error) {
	if err := validator.Validate(config); err != nil {
		return nil, err
	}

	s := &Server{
		notesService: config.NotesService,
		limiter:      config.RecordLimiter,
		logger:       config.Logger,
		port:         config.Port,
		readTimeout:  config.ReadTimeout,
		writeTimeout: config.WriteTimeout,
		router:       gin.New(),
	}

	if err := s.setup(); err != nil {
		return nil, err
	}

	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is canceled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.port,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "HTTP server listening", "addr", s.port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		s.logger.Warn("receive shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.logger.Warn("server closed")
	return nil
}

func (s *Server) setup() error {
	s.router.Use(RequestID(), Logging(s.logger), Recovery(s.logger))

	webContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to load embedded static files: %w", err)
	}

	s.router.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.router.StaticFS("/static", http.FS(webContent))
	s.router.GET("/health", handlers.Health)

	notes := handlers.NewNotesHandler(s.notesService, s.logger)

	record := []gin.HandlerFunc{notes.Record}
	if s.limiter != nil {
		record = append([]gin.HandlerFunc{RateLimit(s.limiter, s.logger)}, record...)
	}
	s.router.POST("/record/", record...)
	s.router.POST("/append/", notes.Append)

	s.router.GET("/transcripts/", notes.Transcriptions)
	s.router.GET("/transcripts/dates", notes.Dates)
	s.router.GET("/transcripts/:date", notes.Summaries)

	s.router.GET("/usage/", notes.Usage)

	return nil
}

// serveEmbedded reads the file once at startup
func serveEmbedded(webContent fs.FS, name, contentType string) gin.HandlerFunc {
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, handlers.NewErrorResponse(err.Error()))
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
