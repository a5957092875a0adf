// Package server exposes the converter over HTTP: upload a .pptx and get
// the standalone document, a JSON summary with an embed link, or the
// Markdown outline; converted decks are kept in a Store for the embed routes.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/VantageDataChat/pptxhtml"
	"github.com/VantageDataChat/pptxhtml/internal/config"
	"github.com/VantageDataChat/pptxhtml/internal/outline"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const pptxMIME = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Server holds the handlers of the conversion service.
type Server struct {
	cfg   *config.AppConfig
	store Store
	log   *logrus.Entry
}

// New returns a Server backed by store.
func New(cfg *config.AppConfig, store Store, log *logrus.Entry) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{cfg: cfg, store: store, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.Health)

	v1 := r.Group("/api/v1")
	{
		convert := v1.Group("/convert")
		convert.POST("", s.Convert)
		convert.POST("/standalone", s.ConvertStandalone)
		convert.POST("/outline", s.ConvertOutline)
	}

	embed := r.Group("/embed")
	{
		embed.GET("/:id", s.EmbedDocument)
		embed.GET("/:id/snippet", s.EmbedSnippet)
	}
	return r
}

// accessLog logs one line per request.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

// failureJSON is the wire form of a contained render failure.
type failureJSON struct {
	Kind    pptxhtml.FailureKind `json:"kind"`
	Slide   int                  `json:"slide"`
	Shape   int                  `json:"shape"`
	Element string               `json:"element"`
	Error   string               `json:"error"`
}

// convertResponse is the body of POST /api/v1/convert.
type convertResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Slides    int           `json:"slides"`
	Direction string        `json:"direction"`
	HTML      string        `json:"html"`
	Failures  []failureJSON `json:"failures"`
	EmbedURL  string        `json:"embedUrl"`
	Snippet   string        `json:"snippet"`
}

// Convert renders the upload, stores its embeddable variant and returns a JSON summary.
func (s *Server) Convert(c *gin.Context) {
	res, ok := s.convertUpload(c)
	if !ok {
		return
	}

	id := uuid.NewString()
	embedURL := "/embed/" + id
	embedOpts := s.cfg.EmbedOptions(embedURL)
	embedOpts.Title = res.Title
	emb, err := res.Embed(embedOpts)
	if err != nil {
		s.log.WithError(err).Error("embed generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build embeddable document"})
		return
	}
	csp, err := pptxhtml.FrameAncestors(s.cfg.Embed.AllowedOrigin)
	if err != nil {
		s.log.WithError(err).Error("invalid allowed origin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build embeddable document"})
		return
	}
	artifact := &Artifact{
		ID:         id,
		Title:      res.Title,
		SlideCount: res.SlideCount,
		HTML:       emb.HTML,
		Snippet:    emb.Snippet,
		FrameCSP:   csp,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Put(c.Request.Context(), artifact); err != nil {
		s.log.WithError(err).WithField("id", id).Error("store artifact failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store converted presentation"})
		return
	}

	failures := make([]failureJSON, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, failureJSON{
			Kind:    f.Kind,
			Slide:   f.SlideIndex,
			Shape:   f.ShapeIndex,
			Element: f.ElementID,
			Error:   f.Err.Error(),
		})
	}
	c.JSON(http.StatusOK, convertResponse{
		ID:        id,
		Title:     res.Title,
		Slides:    res.SlideCount,
		Direction: string(res.Direction),
		HTML:      res.HTML,
		Failures:  failures,
		EmbedURL:  embedOpts.ArtifactURL,
		Snippet:   emb.Snippet,
	})
}

// ConvertStandalone renders the upload and returns the standalone document.
func (s *Server) ConvertStandalone(c *gin.Context) {
	res, ok := s.convertUpload(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.HTML))
}

// ConvertOutline renders the upload and returns its Markdown outline.
func (s *Server) ConvertOutline(c *gin.Context) {
	res, ok := s.convertUpload(c)
	if !ok {
		return
	}
	md, err := outline.Markdown(res, res.Title)
	if err != nil {
		s.log.WithError(err).Error("outline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build outline"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// EmbedDocument serves a stored embeddable document.
func (s *Server) EmbedDocument(c *gin.Context) {
	a, ok := s.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Security-Policy", a.FrameCSP)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(a.HTML))
}

// EmbedSnippet serves the host-page snippet of a stored document.
func (s *Server) EmbedSnippet(c *gin.Context) {
	a, ok := s.lookup(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(a.Snippet))
}

// Health reports whether the artifact store is reachable.
func (s *Server) Health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.WithError(err).Warn("store ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": pptxhtml.Version})
}

func (s *Server) lookup(c *gin.Context) (*Artifact, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "presentation not found"})
		return nil, false
	}
	a, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "presentation not found"})
		return nil, false
	}
	if err != nil {
		s.log.WithError(err).WithField("id", id).Error("load artifact failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load presentation"})
		return nil, false
	}
	return a, true
}

// convertUpload reads the multipart "file" field, checks it is a .pptx
// package and renders it within the request timeout. On failure it writes
// the error response and returns false.
func (s *Server) convertUpload(c *gin.Context) (*pptxhtml.RenderResult, bool) {
	if limit := s.cfg.Server.MaxUploadBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return nil, false
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pptx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .pptx files are supported"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return nil, false
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return nil, false
	}
	if !isPackage(data) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "upload is not a .pptx package"})
		return nil, false
	}

	log := s.log.WithFields(logrus.Fields{"file": fh.Filename, "size": len(data)})
	res, err := s.convert(c.Request.Context(), data, log)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("conversion timed out")
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "conversion timed out"})
		return nil, false
	case err != nil:
		log.WithError(err).Warn("conversion failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	log.WithFields(logrus.Fields{"slides": res.SlideCount, "failures": len(res.Failures)}).Info("converted")
	return res, true
}

// convert parses and renders the package, giving up when the request
// timeout expires first.
func (s *Server) convert(ctx context.Context, data []byte, log *logrus.Entry) (*pptxhtml.RenderResult, error) {
	if timeout := s.cfg.Server.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		res *pptxhtml.RenderResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		p, err := pptxhtml.ReadFrom(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			done <- outcome{err: fmt.Errorf("read presentation: %w", err)}
			return
		}
		res, err := pptxhtml.Render(p, s.cfg.RenderOptions(log))
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// isPackage reports whether data sniffs as a presentation or another zip container.
func isPackage(data []byte) bool {
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if mt.Is(pptxMIME) || mt.Is("application/zip") {
			return true
		}
	}
	return false
}
