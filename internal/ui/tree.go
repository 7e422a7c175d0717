package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/moviegraph/internal/config"
	"github.com/hmans/moviegraph/internal/movie"
)

const (
	treeBranch     = "├─ "
	treeLastBranch = "└─ "
)

// TreeNode is a movie row with the actors shown beneath it.
type TreeNode struct {
	Movie  *movie.Movie
	Actors []movie.Actor
}

// TreeNodeJSON is the JSON-serializable version of TreeNode.
type TreeNodeJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	ReleaseDate *int64        `json:"releaseDate,omitempty"`
	Rating      *int          `json:"rating,omitempty"`
	Status      string        `json:"status,omitempty"`
	Actors      []movie.Actor `json:"actor"`
}

// ToJSON converts a TreeNode to its JSON-serializable form.
func (n *TreeNode) ToJSON() *TreeNodeJSON {
	m := n.Movie
	out := &TreeNodeJSON{
		ID:     m.ID,
		Title:  m.Title,
		Rating: m.Rating,
		Actors: n.Actors,
	}
	if out.Actors == nil {
		out.Actors = []movie.Actor{}
	}
	if m.ReleaseDate != nil {
		ms := m.ReleaseDate.Millis()
		out.ReleaseDate = &ms
	}
	if m.Status != nil {
		out.Status = string(*m.Status)
	}
	return out
}

// BuildTree pairs each movie with the actors resolve returns for it.
func BuildTree(movies []*movie.Movie, resolve func(*movie.Movie) []movie.Actor) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(movies))
	for _, m := range movies {
		nodes = append(nodes, &TreeNode{Movie: m, Actors: resolve(m)})
	}
	return nodes
}

// RenderTree renders movies as a table. With showActors, each movie is
// followed by its actors on tree branches.
func RenderTree(nodes []*TreeNode, cfg *config.Config, showActors bool) string {
	var sb strings.Builder

	maxIDWidth := 2
	for _, n := range nodes {
		if w := runeWidth(n.Movie.ID); w > maxIDWidth {
			maxIDWidth = w
		}
	}
	idColWidth := maxIDWidth + 2

	// Column styles with widths for alignment
	idStyle := lipgloss.NewStyle().Width(idColWidth)
	statusStyle := lipgloss.NewStyle().Width(16)
	ratingStyle := lipgloss.NewStyle().Width(8)
	dateStyle := lipgloss.NewStyle().Width(12)
	headerCol := lipgloss.NewStyle().Foreground(ColorMuted)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		statusStyle.Render(headerCol.Render("STATUS")),
		ratingStyle.Render(headerCol.Render("RATING")),
		dateStyle.Render(headerCol.Render("RELEASED")),
		headerCol.Render("TITLE"),
	)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(Muted.Render(strings.Repeat("─", idColWidth+16+8+12+40)))
	sb.WriteString("\n")

	for _, node := range nodes {
		m := node.Movie

		statusText := Muted.Render("-")
		if m.Status != nil {
			statusText = RenderStatusTextWithColor(string(*m.Status), cfg.StatusColor(string(*m.Status)))
		}
		dateText := Muted.Render("-")
		if m.ReleaseDate != nil {
			dateText = m.ReleaseDate.Time().Format("2006-01-02")
		}
		id := m.ID
		if id == "" {
			id = Muted.Render("(none)")
		} else {
			id = ID.Render(id)
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(id),
			statusStyle.Render(statusText),
			ratingStyle.Render(RenderRating(m.Rating)),
			dateStyle.Render(dateText),
			truncateString(m.Title, 50),
		)
		sb.WriteString(row)
		sb.WriteString("\n")

		if showActors {
			renderActors(&sb, node.Actors)
		}
	}

	return sb.String()
}

// renderActors writes one branch line per actor.
func renderActors(sb *strings.Builder, actors []movie.Actor) {
	for i, a := range actors {
		connector := treeBranch
		if i == len(actors)-1 {
			connector = treeLastBranch
		}
		sb.WriteString(TreeLine.Render(connector))
		sb.WriteString(a.Name)
		sb.WriteString(" ")
		sb.WriteString(Muted.Render("(" + a.ID + ")"))
		sb.WriteString("\n")
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// runeWidth returns the visual width of a string (counting runes, not bytes).
// This assumes all runes are single-width.
func runeWidth(s string) int {
	return len([]rune(s))
}
