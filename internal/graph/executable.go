package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hmans/moviegraph/internal/engine"
	"github.com/hmans/moviegraph/internal/movie"
)

//go:embed schema.graphqls
var schemaSource string

// Config configures NewExecutableSchema.
type Config struct {
	Resolvers ResolverRoot
}

// ResolverRoot gives access to the resolvers of each type with custom fields.
type ResolverRoot interface {
	Movie() MovieResolver
	Mutation() MutationResolver
	Query() QueryResolver
	Subscription() SubscriptionResolver
}

type MovieResolver interface {
	Actor(ctx context.Context, obj *movie.Movie) ([]movie.Actor, error)
}

type MutationResolver interface {
	AddMovie(ctx context.Context, input *movie.MovieInput) ([]*movie.Movie, error)
}

type QueryResolver interface {
	Movies(ctx context.Context) ([]*movie.Movie, error)
	Movie(ctx context.Context, id *string) (*movie.Movie, error)
	Actors(ctx context.Context) ([]movie.Actor, error)
	SearchMovies(ctx context.Context, query string, limit *int) ([]*movie.Movie, error)
	Viewer(ctx context.Context) (string, error)
}

type SubscriptionResolver interface {
	MovieAdded(ctx context.Context) (<-chan *movie.Movie, error)
}

// SchemaSource returns the SDL the schema is built from.
func SchemaSource() string {
	return schemaSource
}

// NewExecutableSchema builds an engine for the movie schema with every
// resolver of cfg bound.
func NewExecutableSchema(cfg Config) *engine.Engine {
	e := engine.New(engine.MustLoadSchema("schema.graphqls", schemaSource))
	e.Scalar("Date", DateCodec{})

	q := cfg.Resolvers.Query()
	e.Resolve("Query", "movies", func(ctx context.Context, _ any, _ map[string]any) (any, error) {
		return q.Movies(ctx)
	})
	e.Resolve("Query", "movie", func(ctx context.Context, _ any, args map[string]any) (any, error) {
		return q.Movie(ctx, optionalString(args, "id"))
	})
	e.Resolve("Query", "actors", func(ctx context.Context, _ any, _ map[string]any) (any, error) {
		return q.Actors(ctx)
	})
	e.Resolve("Query", "searchMovies", func(ctx context.Context, _ any, args map[string]any) (any, error) {
		query, _ := args["query"].(string)
		var limit *int
		if v, ok := args["limit"].(int); ok {
			limit = &v
		}
		return q.SearchMovies(ctx, query, limit)
	})
	e.Resolve("Query", "viewer", func(ctx context.Context, _ any, _ map[string]any) (any, error) {
		return q.Viewer(ctx)
	})

	m := cfg.Resolvers.Mutation()
	e.Resolve("Mutation", "addMovie", func(ctx context.Context, _ any, args map[string]any) (any, error) {
		raw, ok := args["movie"].(map[string]any)
		if !ok {
			return m.AddMovie(ctx, nil)
		}
		input, err := movieInputFromArgs(raw)
		if err != nil {
			return nil, err
		}
		return m.AddMovie(ctx, &input)
	})

	mv := cfg.Resolvers.Movie()
	e.Resolve("Movie", "actor", func(ctx context.Context, parent any, _ map[string]any) (any, error) {
		obj, ok := parent.(*movie.Movie)
		if !ok {
			return nil, fmt.Errorf("Movie.actor: unexpected parent %T", parent)
		}
		return mv.Actor(ctx, obj)
	})

	s := cfg.Resolvers.Subscription()
	e.Stream("movieAdded", func(ctx context.Context, _ map[string]any) (<-chan any, error) {
		src, err := s.MovieAdded(ctx)
		if err != nil {
			return nil, err
		}
		return forward(ctx, src), nil
	})

	return e
}

func optionalString(args map[string]any, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

// forward relays a typed event channel as an untyped one.
func forward[T any](ctx context.Context, src <-chan T) <-chan any {
	out := make(chan any)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
