package graph

import (
	"context"

	"github.com/hmans/moviegraph/internal/auth"
	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/movie"
)

// Actor is the resolver for the actor field.
func (r *movieResolver) Actor(ctx context.Context, obj *movie.Movie) ([]movie.Actor, error) {
	return ResolveActors(r.Core.Actors(), obj), nil
}

// AddMovie is the resolver for the addMovie field.
func (r *mutationResolver) AddMovie(ctx context.Context, input *movie.MovieInput) ([]*movie.Movie, error) {
	var in movie.MovieInput
	if input != nil {
		in = *input
	}
	return r.Core.AddMovie(ctx, in), nil
}

// Movies is the resolver for the movies field.
func (r *queryResolver) Movies(ctx context.Context) ([]*movie.Movie, error) {
	return r.Core.Movies(), nil
}

// Movie is the resolver for the movie field.
func (r *queryResolver) Movie(ctx context.Context, id *string) (*movie.Movie, error) {
	m, ok := r.Core.Movie(id)
	if !ok {
		return nil, nil
	}
	return m, nil
}

// Actors is the resolver for the actors field.
func (r *queryResolver) Actors(ctx context.Context) ([]movie.Actor, error) {
	return r.Core.Actors(), nil
}

// SearchMovies is the resolver for the searchMovies field.
func (r *queryResolver) SearchMovies(ctx context.Context, query string, limit *int) ([]*movie.Movie, error) {
	n := 0
	if limit != nil {
		n = *limit
	}
	return r.Core.Search(query, n)
}

// Viewer is the resolver for the viewer field.
func (r *queryResolver) Viewer(ctx context.Context) (string, error) {
	return auth.FromContext(ctx).Name, nil
}

// MovieAdded is the resolver for the movieAdded field.
func (r *subscriptionResolver) MovieAdded(ctx context.Context) (<-chan *movie.Movie, error) {
	sub := r.Core.Subscribe()
	ch := make(chan *movie.Movie)

	go func() {
		defer close(ch)
		defer sub.Close()

		for {
			m, ok := sub.Next(ctx)
			if !ok {
				ctxlog.FromContext(ctx).Debug("subscription ended", "topic", sub.Topic(), "subscription", sub.ID())
				return
			}
			select {
			case ch <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Movie returns MovieResolver implementation.
func (r *Resolver) Movie() MovieResolver { return &movieResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// Subscription returns SubscriptionResolver implementation.
func (r *Resolver) Subscription() SubscriptionResolver { return &subscriptionResolver{r} }

type movieResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
