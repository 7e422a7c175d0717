// Package moviecore ties the movie store, the search index and the event
// broker together behind the query and mutation operations.
package moviecore

import (
	"fmt"
	"log/slog"

	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/pubsub"
	"github.com/hmans/moviegraph/internal/search"
	"github.com/hmans/moviegraph/internal/store"
)

// TopicMovieAdded is the topic new movies are published on.
const TopicMovieAdded = "movieAdded"

// Core provides the query and mutation operations over one store.
type Core struct {
	store  *store.Store
	events *pubsub.Broker[*movie.Movie]
	index  *search.Index
	logger *slog.Logger
}

// New creates a Core over st and indexes every movie already in it.
func New(st *store.Store, logger *slog.Logger) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx, err := search.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	if err := idx.IndexMovies(st.ListMovies()); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing movies: %w", err)
	}

	return &Core{
		store:  st,
		events: pubsub.NewBroker[*movie.Movie](),
		index:  idx,
		logger: logger,
	}, nil
}

// Store returns the underlying store.
func (c *Core) Store() *store.Store {
	return c.store
}

// Events returns the broker new movies are published on.
func (c *Core) Events() *pubsub.Broker[*movie.Movie] {
	return c.events
}

// Subscribe registers a listener for movies added from now on.
func (c *Core) Subscribe() *pubsub.Subscription[*movie.Movie] {
	return c.events.Subscribe(TopicMovieAdded)
}

// Close ends every subscription and releases the search index.
func (c *Core) Close() error {
	c.events.Close()
	return c.index.Close()
}
