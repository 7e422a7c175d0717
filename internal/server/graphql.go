package server

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hmans/moviegraph/internal/ctxlog"
)

// newGraphQLHandler serves es over websockets, server-sent events and
// plain GET and POST requests. SSE must be registered ahead of POST since
// both accept JSON bodies; the first transport that supports a request wins.
func newGraphQLHandler(es graphql.ExecutableSchema) *handler.Server {
	srv := handler.New(es)

	srv.AddTransport(transport.Websocket{
		KeepAlivePingInterval: 10 * time.Second,
		ErrorFunc: func(ctx context.Context, err error) {
			ctxlog.FromContext(ctx).Warn("websocket error", "error", err)
		},
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.SSE{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))

	srv.Use(extension.Introspection{})
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New[string](100),
	})

	srv.AroundOperations(func(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
		op := graphql.GetOperationContext(ctx)
		ctxlog.FromContext(ctx).Debug("graphql operation", "name", op.OperationName, "type", op.Operation.Operation)
		return next(ctx)
	})
	srv.AroundResponses(func(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
		resp := next(ctx)
		if resp != nil && len(resp.Errors) > 0 {
			ctxlog.FromContext(ctx).Debug("graphql errors", "errors", resp.Errors.Error())
		}
		return resp
	})

	return srv
}

// handleGraphQLGet shows the playground to browsers that open the endpoint
// without a query and hands everything else, websocket upgrades included,
// to the GraphQL handler.
func (s *Server) handleGraphQLGet(c *gin.Context) {
	if s.playground != nil && c.Query("query") == "" && c.GetHeader("Upgrade") == "" && accepts(c, "text/html") {
		s.playground.ServeHTTP(c.Writer, c.Request)
		return
	}
	s.gql.ServeHTTP(c.Writer, c.Request)
}
