package moviecore

import "github.com/hmans/moviegraph/internal/movie"

// DanglingRef is an actor reference that names no known actor.
type DanglingRef struct {
	MovieID string `json:"movie_id"`
	ActorID string `json:"actor_id"`
}

// DuplicateID is a movie id used by more than one entry.
type DuplicateID struct {
	MovieID string `json:"movie_id"`
	Count   int    `json:"count"`
}

// CheckResult lists the integrity issues found in the catalog. None of them
// affect serving: dangling refs resolve to nothing and lookups take the
// first duplicate.
type CheckResult struct {
	DanglingRefs []DanglingRef `json:"dangling_refs"`
	DuplicateIDs []DuplicateID `json:"duplicate_ids"`
	Untitled     []int         `json:"untitled"`
}

// HasIssues returns true if any issues were found.
func (r *CheckResult) HasIssues() bool {
	return r.TotalIssues() > 0
}

// TotalIssues returns the total count of all issues.
func (r *CheckResult) TotalIssues() int {
	return len(r.DanglingRefs) + len(r.DuplicateIDs) + len(r.Untitled)
}

// Check validates actor references and movie ids across the catalog.
func (c *Core) Check() *CheckResult {
	return CheckMovies(c.store.ListActors(), c.store.ListMovies())
}

// CheckMovies validates movies against actors. Untitled holds the positions
// of movies with an empty id or title.
func CheckMovies(actors []movie.Actor, movies []*movie.Movie) *CheckResult {
	result := &CheckResult{
		DanglingRefs: []DanglingRef{},
		DuplicateIDs: []DuplicateID{},
		Untitled:     []int{},
	}

	known := make(map[string]bool, len(actors))
	for _, a := range actors {
		known[a.ID] = true
	}

	counts := make(map[string]int)
	var order []string
	for i, m := range movies {
		if m.ID == "" || m.Title == "" {
			result.Untitled = append(result.Untitled, i)
		}
		if counts[m.ID] == 0 {
			order = append(order, m.ID)
		}
		counts[m.ID]++

		for _, ref := range m.Actors {
			if !known[ref.ID] {
				result.DanglingRefs = append(result.DanglingRefs, DanglingRef{MovieID: m.ID, ActorID: ref.ID})
			}
		}
	}

	for _, id := range order {
		if counts[id] > 1 {
			result.DuplicateIDs = append(result.DuplicateIDs, DuplicateID{MovieID: id, Count: counts[id]})
		}
	}

	return result
}
