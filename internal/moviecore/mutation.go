package moviecore

import (
	"context"

	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/movie"
)

// AddMovie appends a movie built from input, publishes it to movieAdded
// listeners and returns the whole collection. The input is stored as given;
// missing fields are not filled in and nothing is validated.
func (c *Core) AddMovie(ctx context.Context, input movie.MovieInput) []*movie.Movie {
	logger := ctxlog.FromContext(ctx)

	movies, pos := c.store.AddMovie(input.ToMovie())

	if err := c.index.IndexMovie(pos, movies[pos]); err != nil {
		logger.Warn("failed to index movie", "id", movies[pos].ID, "error", err)
	}

	c.events.Publish(TopicMovieAdded, input.ToMovie())
	logger.Debug("movie added", "id", movies[pos].ID, "listeners", c.events.Subscribers(TopicMovieAdded))

	return movies
}
