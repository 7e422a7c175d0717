// Package store holds the authoritative in-memory collections of actors and
// movies.
package store

import (
	"sync"

	"github.com/hmans/moviegraph/internal/movie"
)

// Store is a thread-safe in-memory store for the catalog. Movies keep their
// insertion order and identifiers are not required to be unique.
type Store struct {
	mu     sync.RWMutex
	actors []movie.Actor
	movies []*movie.Movie
}

// New creates a store seeded with the given records.
func New(actors []movie.Actor, movies []*movie.Movie) *Store {
	s := &Store{
		actors: append([]movie.Actor(nil), actors...),
		movies: make([]*movie.Movie, 0, len(movies)),
	}
	s.movies = append(s.movies, movies...)
	return s
}

// ListMovies returns all movies in insertion order.
func (s *Store) ListMovies() []*movie.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// GetMovie returns the first movie whose ID equals id.
func (s *Store) GetMovie(id string) (*movie.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// MovieAt returns the movie at insertion position i.
func (s *Store) MovieAt(i int) (*movie.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.movies) {
		return nil, false
	}
	return s.movies[i], true
}

// Len returns the number of stored movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.movies)
}

// ListActors returns all actors in their canonical order.
func (s *Store) ListActors() []movie.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]movie.Actor(nil), s.actors...)
}

// GetActor returns the actor with the given ID.
func (s *Store) GetActor(id string) (movie.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.actors {
		if a.ID == id {
			return a, true
		}
	}
	return movie.Actor{}, false
}

// AddMovie appends m and returns the resulting collection together with the
// position m was stored at. Duplicate IDs are accepted.
func (s *Store) AddMovie(m *movie.Movie) ([]*movie.Movie, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = append(s.movies, m)
	return s.snapshot(), len(s.movies) - 1
}

// snapshot copies the movie slice (must be called with lock held).
func (s *Store) snapshot() []*movie.Movie {
	result := make([]*movie.Movie, len(s.movies))
	copy(result, s.movies)
	return result
}
