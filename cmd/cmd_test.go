package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/config"
	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/moviecore"
	"github.com/hmans/moviegraph/internal/store"
)

var testActors = []movie.Actor{
	{ID: "a1", Name: "Mahadevaya"},
	{ID: "a2", Name: "Parvati"},
}

func intPtr(n int) *int { return &n }

func statusPtr(s movie.Status) *movie.Status { return &s }

func datePtr(ms int64) *movie.Date {
	d := movie.DateFromMillis(ms)
	return &d
}

func testMovies() []*movie.Movie {
	return []*movie.Movie{
		{ID: "m2", Title: "Kailash", ReleaseDate: datePtr(434592000000), Rating: intPtr(3), Status: statusPtr(movie.StatusInterested)},
		{ID: "m1", Title: "Shiva Shambho", ReleaseDate: datePtr(434678400000), Rating: intPtr(5), Status: statusPtr(movie.StatusWatched),
			Actors: []movie.ActorRef{{ID: "a2"}, {ID: "ghost"}, {ID: "a1"}}},
		{ID: "m3", Title: "Untitled Project"},
	}
}

// setupTestCore replaces the global core, config and logger for one test.
func setupTestCore(t *testing.T) *moviecore.Core {
	t.Helper()

	testCore, err := moviecore.New(store.New(testActors, testMovies()), ctxlog.Discard())
	if err != nil {
		t.Fatalf("failed to create core: %v", err)
	}

	oldCore, oldCfg, oldLogger := core, cfg, logger
	core = testCore
	cfg = config.Default()
	logger = ctxlog.Discard()

	t.Cleanup(func() {
		testCore.Close()
		core, cfg, logger = oldCore, oldCfg, oldLogger
	})

	return testCore
}

// runCommand runs c's RunE with output captured.
func runCommand(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	defer c.SetOut(nil)
	err := c.RunE(c, args)
	return buf.String(), err
}
