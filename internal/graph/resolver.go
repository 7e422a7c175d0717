package graph

import "github.com/hmans/moviegraph/internal/moviecore"

// Resolver is the root resolver for the GraphQL schema.
// It holds a reference to moviecore.Core for data access.
type Resolver struct {
	Core *moviecore.Core
}
