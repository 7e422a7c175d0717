package graph

import (
	"fmt"

	"github.com/hmans/moviegraph/internal/movie"
)

// movieInputFromArgs converts a coerced MovieInput argument. Fields that were
// not supplied, or were null, stay nil.
func movieInputFromArgs(args map[string]any) (movie.MovieInput, error) {
	var in movie.MovieInput

	if v, ok := args["id"].(string); ok {
		in.ID = &v
	}
	if v, ok := args["title"].(string); ok {
		in.Title = &v
	}
	if v, ok := args["releaseDate"].(movie.Date); ok {
		in.ReleaseDate = &v
	}
	if v, ok := args["rating"].(int); ok {
		in.Rating = &v
	}
	if v, ok := args["status"].(string); ok {
		s, err := movie.ParseStatus(v)
		if err != nil {
			return in, err
		}
		in.Status = &s
	}

	if raw, ok := args["actor"].([]any); ok {
		in.Actors = make([]movie.ActorRef, 0, len(raw))
		for i, item := range raw {
			ref, ok := item.(map[string]any)
			if !ok {
				return in, fmt.Errorf("actor[%d]: expected ActorInput, got %T", i, item)
			}
			id, _ := ref["id"].(string)
			in.Actors = append(in.Actors, movie.ActorRef{ID: id})
		}
	}

	return in, nil
}
