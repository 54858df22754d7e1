// Package web serves the chase-card page and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/currency"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/webcache"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	// MaxLimit bounds ?limit on the API.
	MaxLimit = 50

	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// Results is what the handlers render; *webcache.WebCache and
// *chase.Service both satisfy it.
type Results interface {
	Top(ctx context.Context, setID string, limit int) chase.Result
	Sets() []model.Set
	Known(setID string) bool
	Strategy() chase.Strategy
	DefaultLimit() int
}

// cacheStatus is implemented by results served through the web cache.
type cacheStatus interface {
	Status() webcache.Status
}

// Server hosts the page and API.
type Server struct {
	addr       string
	results    Results
	log        zerolog.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer builds the router. It fails only if the embedded templates do
// not parse.
func NewServer(addr string, results Results, log zerolog.Logger) (*Server, error) {
	s := &Server{addr: addr, results: results, log: log}
	router, err := s.buildRouter()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info().Str("addr", s.addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		s.log.Info().Msg("http server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) buildRouter() (*gin.Engine, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"price":       currency.Format,
		"sourceLabel": model.Source.Label,
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.handleIndex)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	api.GET("/sets", s.handleSets)
	api.GET("/sets/:id/top", s.handleTop)

	return router, nil
}

// requestLogger tags each request with an id, puts a request-scoped logger
// on the context and writes one access line when the request completes.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		reqLog := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		reqLog.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
