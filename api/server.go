package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/editor"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/bcc-code/bcc-media-clips/script"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MaxScriptSize caps the body of POST /scripts.
const MaxScriptSize = 1 << 20

type ErrorResponse struct {
	Error       string `json:"error"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

type ScriptResponse struct {
	Clips []editor.Summary `json:"clips"`
}

type FormatsResponse struct {
	PixelFormats []common.PixelFormatRow `json:"pixelFormats"`
	Operations   []string                `json:"operations"`
	ClipTags     []string                `json:"clipTags"`
}

// Server runs scripts over HTTP. Every request gets its own interpreter,
// so clip names do not leak between requests.
// Script file paths are confined to the configured work directory.
type Server struct {
	tools   *ffmpeg.Toolkit
	workDir string
	cors    *cors.Config
	log     zerolog.Logger
}

func NewServer(tools *ffmpeg.Toolkit) (*Server, error) {
	cfg := tools.Config()
	workDir, err := cfg.GetWorkDir()
	if err != nil {
		return nil, err
	}

	s := &Server{
		tools:   tools,
		workDir: workDir,
		log:     logging.WithComponent("api"),
	}
	if len(cfg.AllowedOrigins) > 0 {
		s.cors = &cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}
		if err := s.cors.Validate(); err != nil {
			return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessage("invalid allowed origins"))
		}
	}
	return s, nil
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cors != nil {
		r.Use(cors.New(*s.cors))
	}

	r.GET("/health", s.healthHandler)
	r.GET("/formats", s.formatsHandler)
	r.POST("/scripts", s.scriptsHandler)
	return r
}

func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Str("workDir", s.workDir).Msg("listening")
	return s.Router().Run(addr)
}

func (s *Server) healthHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) formatsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, FormatsResponse{
		PixelFormats: common.PixelFormatRows(),
		Operations:   script.Operations(),
		ClipTags:     script.ClipTags(),
	})
}

func (s *Server) scriptsHandler(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, MaxScriptSize+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(body) > MaxScriptSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "script is too large"})
		return
	}

	in := script.New(editor.New(s.tools))
	if err := in.ConfineTo(s.workDir); err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	summaries, err := in.Run(ctx.Request.Context(), bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Msg("script failed")
		ctx.JSON(statusFor(err), ErrorResponse{
			Error:       err.Error(),
			Diagnostics: ffmpeg.Diagnostics(err),
		})
		return
	}
	ctx.JSON(http.StatusOK, ScriptResponse{Clips: summaries})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrExternalTool):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
