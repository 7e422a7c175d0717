package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/graph"
	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/ui"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a movie and its cast",
	Long:  `Displays a movie's details and the actors it references.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		m, ok := core.Movie(&id)
		if !ok {
			return fmt.Errorf("movie %q not found", id)
		}

		actors := graph.ResolveActors(core.Actors(), m)
		node := &ui.TreeNode{Movie: m, Actors: actors}
		out := cmd.OutOrStdout()

		if showJSON {
			data, err := json.MarshalIndent(node.ToJSON(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding movie: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		renderMovie(out, node)
		return nil
	},
}

// renderMovie writes the styled detail view of a movie.
func renderMovie(w io.Writer, node *ui.TreeNode) {
	m := node.Movie

	var header strings.Builder
	header.WriteString(ui.ID.Render(m.ID))
	if m.Status != nil {
		header.WriteString(" ")
		header.WriteString(ui.RenderStatusWithColor(string(*m.Status), cfg.StatusColor(string(*m.Status))))
	}
	header.WriteString("\n")
	header.WriteString(ui.Title.Render(m.Title))
	header.WriteString("\n")
	header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))
	header.WriteString("\n")

	released := ui.Muted.Render("unknown")
	if m.ReleaseDate != nil {
		released = m.ReleaseDate.Time().Format("January 2, 2006")
	}
	header.WriteString(fmt.Sprintf("%s %s\n", ui.Muted.Render("Released:"), released))
	header.WriteString(fmt.Sprintf("%s %s\n", ui.Muted.Render("Rating:  "), ui.RenderRating(m.Rating)))

	header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))

	box := lipgloss.NewStyle().
		MarginBottom(1).
		Render(header.String())
	fmt.Fprintln(w, box)

	fmt.Fprintln(w, ui.Bold.Render("Cast"))
	fmt.Fprint(w, formatCast(node.Actors, unknownActorIDs(m), m))
}

// formatCast lists resolved actors followed by the ids in unknown.
func formatCast(actors []movie.Actor, unknown []string, m *movie.Movie) string {
	if len(m.Actors) == 0 {
		return ui.Muted.Render("  none") + "\n"
	}

	var sb strings.Builder
	for _, a := range actors {
		sb.WriteString(fmt.Sprintf("  %s %s\n", a.Name, ui.Muted.Render("("+a.ID+")")))
	}
	for _, id := range unknown {
		sb.WriteString(ui.Warning.Render(fmt.Sprintf("  unknown actor %q", id)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// unknownActorIDs returns the distinct actor references of m that the store
// cannot resolve, in reference order.
func unknownActorIDs(m *movie.Movie) []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, ref := range m.Actors {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		if _, ok := core.Store().GetActor(ref.ID); !ok {
			unknown = append(unknown, ref.ID)
		}
	}
	return unknown
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
