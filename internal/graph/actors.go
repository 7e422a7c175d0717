package graph

import "github.com/hmans/moviegraph/internal/movie"

// ResolveActors returns the actors m refers to. The result follows the order
// of actors, not of the references, and references to unknown ids are
// dropped. The result is never nil.
func ResolveActors(actors []movie.Actor, m *movie.Movie) []movie.Actor {
	ids := make(map[string]struct{}, len(m.Actors))
	for _, ref := range m.Actors {
		ids[ref.ID] = struct{}{}
	}

	result := []movie.Actor{}
	for _, a := range actors {
		if _, ok := ids[a.ID]; ok {
			result = append(result, a)
		}
	}
	return result
}
