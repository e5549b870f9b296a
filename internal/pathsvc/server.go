package pathsvc

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/binpath/internal/config"
	"github.com/danmuck/binpath/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

type Server struct {
	Name     string
	Addr     string
	Started  time.Time
	MaxBatch int

	proc   *Processor
	router *gin.Engine
	logger zerolog.Logger
}

// New builds a server with middleware installed and routes registered.
func New(cfg config.Config) (*Server, error) {
	codec, err := cfg.BuildCodec()
	if err != nil {
		return nil, err
	}
	observability.RegisterMetrics()
	logger := observability.Component(cfg.Server.Name, "pathsvc")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Server.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.Server.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Name:     cfg.Server.Name,
		Addr:     cfg.Server.Addr,
		Started:  time.Now(),
		MaxBatch: cfg.Server.MaxBatch,
		proc:     NewProcessor(codec, cfg.Limits()),
		router:   r,
		logger:   logger,
	}
	s.RegisterRoutes()
	return s, nil
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Serve listens on s.Addr until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost:3000"}
	}
	return out
}
