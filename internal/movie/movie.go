// Package movie defines the catalog's domain types: actors, movies and the
// references between them.
package movie

import "fmt"

// Status is how the viewer feels about a movie.
type Status string

const (
	StatusWatched       Status = "WATCHED"
	StatusInterested    Status = "INTERESTED"
	StatusNotInterested Status = "NOT_INTERESTED"
	StatusUnknown       Status = "UNKNOWN"
)

// AllStatuses lists the statuses in schema order.
var AllStatuses = []Status{StatusWatched, StatusInterested, StatusNotInterested, StatusUnknown}

// IsValid returns true if s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a status name into a Status.
func ParseStatus(name string) (Status, error) {
	s := Status(name)
	if !s.IsValid() {
		return "", fmt.Errorf("%q is not a valid Status", name)
	}
	return s, nil
}

// Actor is a person appearing in movies.
type Actor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ActorRef points at an actor by identifier only. It is resolved against the
// actor collection on read and never embeds the actor itself.
type ActorRef struct {
	ID string `json:"id" yaml:"id"`
}

// Movie is a catalog entry. Optional fields are nil when unset.
type Movie struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	ReleaseDate *Date      `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
	Rating      *int       `json:"rating,omitempty" yaml:"rating,omitempty"`
	Status      *Status    `json:"status,omitempty" yaml:"status,omitempty"`
	Actors      []ActorRef `json:"actor,omitempty" yaml:"actor,omitempty"`
}

// ActorIDs returns the referenced actor ids in reference order.
func (m *Movie) ActorIDs() []string {
	ids := make([]string, 0, len(m.Actors))
	for _, ref := range m.Actors {
		ids = append(ids, ref.ID)
	}
	return ids
}

// Clone returns a deep copy of the movie.
func (m *Movie) Clone() *Movie {
	c := *m
	if m.ReleaseDate != nil {
		d := *m.ReleaseDate
		c.ReleaseDate = &d
	}
	if m.Rating != nil {
		r := *m.Rating
		c.Rating = &r
	}
	if m.Status != nil {
		s := *m.Status
		c.Status = &s
	}
	if m.Actors != nil {
		c.Actors = append([]ActorRef(nil), m.Actors...)
	}
	return &c
}

// MovieInput is the client-supplied shape for a new movie. Every field is
// optional and nothing is validated.
type MovieInput struct {
	ID          *string
	Title       *string
	ReleaseDate *Date
	Rating      *int
	Status      *Status
	Actors      []ActorRef
}

// ToMovie builds a movie record straight from the input. Missing id or title
// become empty strings; no other defaulting happens.
func (in MovieInput) ToMovie() *Movie {
	m := &Movie{}
	if in.ID != nil {
		m.ID = *in.ID
	}
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.ReleaseDate != nil {
		d := *in.ReleaseDate
		m.ReleaseDate = &d
	}
	if in.Rating != nil {
		r := *in.Rating
		m.Rating = &r
	}
	if in.Status != nil {
		s := *in.Status
		m.Status = &s
	}
	if in.Actors != nil {
		m.Actors = append([]ActorRef(nil), in.Actors...)
	}
	return m
}

// Input returns the input that would recreate m through ToMovie.
func (m *Movie) Input() MovieInput {
	c := m.Clone()
	return MovieInput{
		ID:          &c.ID,
		Title:       &c.Title,
		ReleaseDate: c.ReleaseDate,
		Rating:      c.Rating,
		Status:      c.Status,
		Actors:      c.Actors,
	}
}
