package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hmans/moviegraph/internal/movie"
)

func TestResolveActors(t *testing.T) {
	actors := testActors()

	tests := []struct {
		name string
		refs []movie.ActorRef
		want []string
	}{
		{"no refs", nil, []string{}},
		{"single", []movie.ActorRef{{ID: "p"}}, []string{"p"}},
		{"catalog order wins", []movie.ActorRef{{ID: "n"}, {ID: "asdfjkl;"}}, []string{"asdfjkl;", "n"}},
		{"dangling ref", []movie.ActorRef{{ID: "ghost"}}, []string{}},
		{"dangling mixed", []movie.ActorRef{{ID: "ghost"}, {ID: "p"}}, []string{"p"}},
		{"repeated ref", []movie.ActorRef{{ID: "p"}, {ID: "p"}}, []string{"p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveActors(actors, &movie.Movie{Actors: tt.refs})
			if got == nil {
				t.Fatal("ResolveActors() returned nil")
			}
			ids := make([]string, 0, len(got))
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("ResolveActors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
