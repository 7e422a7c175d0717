// Package search provides full-text search over movies using Bleve.
package search

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/hmans/moviegraph/internal/movie"
)

// DefaultSearchLimit is the default maximum number of search results.
const DefaultSearchLimit = 1000

// Index wraps a Bleve in-memory index for searching movies.
//
// Documents are keyed by the movie's insertion position rather than its ID,
// since IDs are not guaranteed to be unique or present.
type Index struct {
	index bleve.Index
}

// movieDocument is the structure stored in the Bleve index.
type movieDocument struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Status string   `json:"status,omitempty"`
	Actors []string `json:"actors,omitempty"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	return &Index{index: idx}, nil
}

// buildIndexMapping creates the Bleve index mapping for movie documents.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	movieMapping := bleve.NewDocumentMapping()
	movieMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	movieMapping.AddFieldMappingsAt("title", textFieldMapping)
	movieMapping.AddFieldMappingsAt("status", keywordFieldMapping)
	movieMapping.AddFieldMappingsAt("actors", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = movieMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

func newDocument(m *movie.Movie) movieDocument {
	doc := movieDocument{
		ID:     m.ID,
		Title:  m.Title,
		Actors: m.ActorIDs(),
	}
	if m.Status != nil {
		doc.Status = string(*m.Status)
	}
	return doc
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// IndexMovie adds the movie stored at position pos to the index.
func (idx *Index) IndexMovie(pos int, m *movie.Movie) error {
	return idx.index.Index(strconv.Itoa(pos), newDocument(m))
}

// IndexMovies indexes a whole collection in a batch, keyed by slice position.
func (idx *Index) IndexMovies(movies []*movie.Movie) error {
	batch := idx.index.NewBatch()
	for i, m := range movies {
		if err := batch.Index(strconv.Itoa(i), newDocument(m)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Search executes a query string search and returns matching movie positions,
// best match first. A limit of 0 or less uses DefaultSearchLimit.
//
// The query string syntax supports plain terms ("kailash"), wildcards
// ("shiv*"), phrases and field queries ("status:WATCHED", "actors:abc").
func (idx *Index) Search(queryStr string, limit int) ([]int, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := bleve.NewQueryStringQuery(queryStr)

	searchRequest := bleve.NewSearchRequest(query)
	searchRequest.Size = limit

	result, err := idx.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	positions := make([]int, 0, len(result.Hits))
	for _, hit := range result.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		positions = append(positions, pos)
	}

	return positions, nil
}
