package moviecore

import (
	"fmt"

	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/search"
)

// Movies returns every movie in insertion order.
func (c *Core) Movies() []*movie.Movie {
	return c.store.ListMovies()
}

// Movie returns the first movie with the given id. A nil id is never found.
func (c *Core) Movie(id *string) (*movie.Movie, bool) {
	if id == nil {
		return nil, false
	}
	return c.store.GetMovie(*id)
}

// Actors returns every actor in catalog order.
func (c *Core) Actors() []movie.Actor {
	return c.store.ListActors()
}

// Search runs a bleve query string against the movie index and returns the
// matches in relevance order. A limit of zero or less uses the default.
func (c *Core) Search(query string, limit int) ([]*movie.Movie, error) {
	if limit <= 0 {
		limit = search.DefaultSearchLimit
	}

	positions, err := c.index.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching movies: %w", err)
	}

	result := make([]*movie.Movie, 0, len(positions))
	for _, pos := range positions {
		if m, ok := c.store.MovieAt(pos); ok {
			result = append(result, m)
		}
	}
	return result, nil
}
