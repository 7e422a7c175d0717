// Package server exposes the GraphQL API over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"

	"github.com/hmans/moviegraph/internal/config"
	"github.com/hmans/moviegraph/internal/engine"
	"github.com/hmans/moviegraph/internal/graph"
	"github.com/hmans/moviegraph/internal/moviecore"
)

// Server routes HTTP requests to the GraphQL engine.
type Server struct {
	core       *moviecore.Core
	schema     *engine.Engine
	gql        *handler.Server
	playground http.Handler
	cfg        *config.Config
	logger     *slog.Logger
	router     *gin.Engine
}

// New creates a server for core.
func New(core *moviecore.Core, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	es := graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Core: core},
	})

	s := &Server{
		core:   core,
		schema: es,
		gql:    newGraphQLHandler(es),
		cfg:    cfg,
		logger: logger,
		router: gin.New(),
	}
	if cfg.Server.Playground {
		s.playground = playground.Handler("moviegraph", "/graphql")
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID(), requestLogger(s.logger), identity(s.cfg.Auth.Identity), recovery())

	r.POST("/graphql", gin.WrapH(s.gql))
	r.OPTIONS("/graphql", gin.WrapH(s.gql))
	r.GET("/graphql", s.handleGraphQLGet)
	r.GET("/schema", s.handleSchema)
	r.GET("/healthz", s.handleHealth)

	if s.playground != nil {
		r.GET("/playground", gin.WrapH(s.playground))
	}
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server for the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:        s.cfg.Addr(),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

func (s *Server) handleSchema(c *gin.Context) {
	c.String(http.StatusOK, s.schema.SDL())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"movies":    s.core.Store().Len(),
		"listeners": s.core.Events().Subscribers(moviecore.TopicMovieAdded),
	})
}

func accepts(c *gin.Context, mime string) bool {
	return strings.Contains(c.GetHeader("Accept"), mime)
}
