// Package catalog reads the seed catalog of actors and movies from YAML.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hmans/moviegraph/internal/movie"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the catalog file name used when none is configured.
const DefaultFile = "catalog.yml"

//go:embed catalog.yml
var defaultCatalog []byte

// Catalog is the seed data the store starts with.
type Catalog struct {
	Actors []movie.Actor  `yaml:"actors"`
	Movies []*movie.Movie `yaml:"movies"`
}

// Parse reads a catalog from r. An empty document is an empty catalog.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i, m := range c.Movies {
		if m == nil {
			c.Movies[i] = &movie.Movie{}
		}
	}
	return &c, nil
}

// Load reads the catalog at path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// DefaultSource returns the YAML text of the built-in catalog.
func DefaultSource() []byte {
	return append([]byte(nil), defaultCatalog...)
}
