// Package engine executes GraphQL operations against a schema whose fields
// are backed by an explicit table of resolver functions.
//
// Engine implements graphql.ExecutableSchema, so gqlgen's executor and
// transports handle parsing, validation and the wire protocol. Each field is
// resolved by the Resolver registered for its (type, field) pair, falling
// back to a reflection-based default resolver that reads map keys, struct
// fields and methods. Custom scalars plug in through ScalarCodec.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Resolver computes the value of one field given its parent object and the
// coerced arguments.
type Resolver func(ctx context.Context, parent any, args map[string]any) (any, error)

// SubscribeFunc opens an event stream for a subscription root field. The
// returned channel must be closed once ctx is done or the source runs dry.
type SubscribeFunc func(ctx context.Context, args map[string]any) (<-chan any, error)

// FieldKey identifies a field on an object type.
type FieldKey struct {
	Type  string
	Field string
}

// String returns the key in Type.field notation.
func (k FieldKey) String() string {
	return k.Type + "." + k.Field
}

// Engine holds a schema together with the resolvers, subscription sources
// and scalar codecs bound to it. Bind everything before serving requests;
// registration is not safe for concurrent use with execution.
type Engine struct {
	schema    *ast.Schema
	resolvers map[FieldKey]Resolver
	streams   map[string]SubscribeFunc
	scalars   map[string]ScalarCodec
}

// LoadSchema parses and validates SDL source.
func LoadSchema(name, sdl string) (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	return schema, nil
}

// MustLoadSchema is like LoadSchema but panics on error.
func MustLoadSchema(name, sdl string) *ast.Schema {
	schema, err := LoadSchema(name, sdl)
	if err != nil {
		panic(err)
	}
	return schema
}

var _ graphql.ExecutableSchema = (*Engine)(nil)

var errIntrospectionDisabled = errors.New("introspection disabled")

// New creates an engine for schema with introspection fields bound.
func New(schema *ast.Schema) *Engine {
	e := &Engine{
		schema:    schema,
		resolvers: make(map[FieldKey]Resolver),
		streams:   make(map[string]SubscribeFunc),
		scalars:   make(map[string]ScalarCodec),
	}

	if schema.Query != nil {
		e.Resolve(schema.Query.Name, "__schema", func(ctx context.Context, parent any, args map[string]any) (any, error) {
			if introspectionDisabled(ctx) {
				return nil, errIntrospectionDisabled
			}
			return introspection.WrapSchema(schema), nil
		})
		e.Resolve(schema.Query.Name, "__type", func(ctx context.Context, parent any, args map[string]any) (any, error) {
			if introspectionDisabled(ctx) {
				return nil, errIntrospectionDisabled
			}
			name, _ := args["name"].(string)
			def, ok := schema.Types[name]
			if !ok {
				return nil, nil
			}
			return introspection.WrapTypeFromDef(schema, def), nil
		})
	}

	return e
}

func introspectionDisabled(ctx context.Context) bool {
	return graphql.HasOperationContext(ctx) && graphql.GetOperationContext(ctx).DisableIntrospection
}

// Schema returns the engine's schema.
func (e *Engine) Schema() *ast.Schema {
	return e.schema
}

// Complexity reports no per-field costs; complexity limits fall back to
// gqlgen's default of one per field.
func (e *Engine) Complexity(ctx context.Context, typeName, fieldName string, childComplexity int, args map[string]any) (int, bool) {
	return 0, false
}

// SDL renders the schema as SDL text.
func (e *Engine) SDL() string {
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(e.schema)
	return buf.String()
}

// Resolve binds r to typeName.fieldName.
func (e *Engine) Resolve(typeName, fieldName string, r Resolver) {
	e.resolvers[FieldKey{Type: typeName, Field: fieldName}] = r
}

// Stream binds the event source for a subscription root field. Each event
// becomes the parent value of that field; a Resolver registered for the
// same field can map it, otherwise the event is used as the field value.
func (e *Engine) Stream(fieldName string, fn SubscribeFunc) {
	e.streams[fieldName] = fn
}

// Scalar binds the codec for a custom scalar type.
func (e *Engine) Scalar(name string, codec ScalarCodec) {
	e.scalars[name] = codec
}

// Check returns the keys of bound resolvers and streams that do not name a
// field in the schema.
func (e *Engine) Check() []FieldKey {
	var unknown []FieldKey
	for key := range e.resolvers {
		def, ok := e.schema.Types[key.Type]
		if !ok || def.Fields.ForName(key.Field) == nil {
			unknown = append(unknown, key)
		}
	}
	for name := range e.streams {
		if e.schema.Subscription == nil || e.schema.Subscription.Fields.ForName(name) == nil {
			unknown = append(unknown, FieldKey{Type: "Subscription", Field: name})
		}
	}
	return unknown
}
