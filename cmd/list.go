package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/graph"
	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/ui"
)

var (
	listJSON   bool
	listStatus []string
	listActors bool
	listQuiet  bool
	listSearch string
	listSort   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List movies in the catalog",
	Long: `Lists the movies in the catalog.

Movies are shown in catalog order unless --sort is given. Use --search to
run a full-text query over titles and actor ids. Use --actors to show each
movie's cast.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		movies := core.Movies()
		if listSearch != "" {
			found, err := core.Search(listSearch, 0)
			if err != nil {
				return err
			}
			movies = found
		}

		movies, err := filterMovies(movies, listStatus)
		if err != nil {
			return err
		}
		sortMovies(movies, listSort)

		actors := core.Actors()
		nodes := ui.BuildTree(movies, func(m *movie.Movie) []movie.Actor {
			return graph.ResolveActors(actors, m)
		})

		out := cmd.OutOrStdout()

		if listJSON {
			items := make([]*ui.TreeNodeJSON, 0, len(nodes))
			for _, n := range nodes {
				items = append(items, n.ToJSON())
			}
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding movies: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		// Quiet mode: just IDs
		if listQuiet {
			for _, m := range movies {
				fmt.Fprintln(out, m.ID)
			}
			return nil
		}

		if len(movies) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("No movies found."))
			return nil
		}

		fmt.Fprint(out, ui.RenderTree(nodes, cfg, listActors))
		return nil
	},
}

// sortMovies orders movies in place. Unknown keys keep catalog order.
func sortMovies(movies []*movie.Movie, sortBy string) {
	switch sortBy {
	case "id":
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].ID < movies[j].ID
		})
	case "title":
		sort.SliceStable(movies, func(i, j int) bool {
			return strings.ToLower(movies[i].Title) < strings.ToLower(movies[j].Title)
		})
	case "released":
		sort.SliceStable(movies, func(i, j int) bool {
			a, b := movies[i].ReleaseDate, movies[j].ReleaseDate
			if a == nil || b == nil {
				return a != nil
			}
			return a.Millis() < b.Millis()
		})
	case "rating":
		sort.SliceStable(movies, func(i, j int) bool {
			a, b := movies[i].Rating, movies[j].Rating
			if a == nil || b == nil {
				return a != nil
			}
			return *a > *b
		})
	case "status":
		statusOrder := make(map[movie.Status]int)
		for i, s := range movie.AllStatuses {
			statusOrder[s] = i
		}
		rank := func(m *movie.Movie) int {
			if m.Status == nil {
				return len(movie.AllStatuses)
			}
			return statusOrder[*m.Status]
		}
		sort.SliceStable(movies, func(i, j int) bool {
			return rank(movies[i]) < rank(movies[j])
		})
	}
}

// filterMovies keeps movies whose status is one of statuses. Status names
// may be comma-separated and are matched case-insensitively.
func filterMovies(movies []*movie.Movie, statuses []string) ([]*movie.Movie, error) {
	if len(statuses) == 0 {
		return movies, nil
	}

	wanted := make(map[movie.Status]bool)
	for _, s := range statuses {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status, err := movie.ParseStatus(strings.ToUpper(part))
			if err != nil {
				return nil, err
			}
			wanted[status] = true
		}
	}

	filtered := []*movie.Movie{}
	for _, m := range movies {
		if m.Status != nil && wanted[*m.Status] {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().StringArrayVarP(&listStatus, "status", "s", nil, "Filter by status (can be repeated)")
	listCmd.Flags().BoolVarP(&listActors, "actors", "a", false, "Show each movie's cast")
	listCmd.Flags().BoolVarP(&listQuiet, "quiet", "q", false, "Only output IDs (one per line)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only list movies matching a full-text query")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by: id, title, released, rating, status (default: catalog order)")
	listCmd.MarkFlagsMutuallyExclusive("json", "quiet")
	rootCmd.AddCommand(listCmd)
}
