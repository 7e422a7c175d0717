package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// executionContext carries per-operation state. Fields are executed one at a
// time, so it needs no locking.
type executionContext struct {
	engine *Engine
	opCtx  *graphql.OperationContext
}

// Exec runs the operation held in ctx's operation context. Queries and
// mutations produce a single response; subscriptions produce one response
// per source event until the source closes or ctx is done. Mutation root
// fields run in document order and every field is resolved synchronously.
func (e *Engine) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := &executionContext{engine: e, opCtx: opCtx}

	var root *ast.Definition
	switch opCtx.Operation.Operation {
	case ast.Subscription:
		return ec.subscribe(ctx)
	case ast.Mutation:
		root = e.schema.Mutation
	default:
		root = e.schema.Query
	}
	if root == nil {
		graphql.AddErrorf(ctx, "schema does not support %s operations", opCtx.Operation.Operation)
		return exhausted
	}

	var done bool
	return func(ctx context.Context) *graphql.Response {
		if done {
			return nil
		}
		done = true
		data, ok := ec.executeSelectionSet(ctx, root, opCtx.Operation.SelectionSet, nil, nil)
		return ec.response(ctx, data, ok)
	}
}

func exhausted(context.Context) *graphql.Response {
	return nil
}

func (ec *executionContext) response(ctx context.Context, data *Object, ok bool) *graphql.Response {
	var v any
	if ok {
		v = data
	}
	raw, err := marshaler.Marshal(v)
	if err != nil {
		graphql.AddErrorf(ctx, "marshaling response: %s", err)
		raw = []byte("null")
	}
	return &graphql.Response{Data: raw}
}

func (ec *executionContext) addError(ctx context.Context, path ast.Path, pos *ast.Position, err error) {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = gqlerror.WrapPath(path, err)
	}
	if gqlErr.Path == nil {
		gqlErr.Path = path
	}
	if len(gqlErr.Locations) == 0 && pos != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: pos.Line, Column: pos.Column}}
	}
	graphql.AddError(ctx, gqlErr)
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

// collectFields flattens set into response keys for objDef, expanding
// fragments whose type condition objDef satisfies.
func (ec *executionContext) collectFields(objDef *ast.Definition, set ast.SelectionSet) []graphql.CollectedField {
	satisfies := append([]string{objDef.Name}, objDef.Interfaces...)
	return graphql.CollectFields(ec.opCtx, set, satisfies)
}

// executeSelectionSet resolves every collected field of objDef on parent.
// It returns false when a non-null violation nulled the whole object.
func (ec *executionContext) executeSelectionSet(ctx context.Context, objDef *ast.Definition, set ast.SelectionSet, parent any, path ast.Path) (*Object, bool) {
	fields := ec.collectFields(objDef, set)
	result := newObject(len(fields))

	for _, field := range fields {
		value, ok := ec.executeField(ctx, objDef, parent, field, appendPath(path, ast.PathName(field.Alias)))
		if !ok {
			return nil, false
		}
		result.Set(field.Alias, value)
	}

	return result, true
}

func (ec *executionContext) executeField(ctx context.Context, objDef *ast.Definition, parent any, field graphql.CollectedField, path ast.Path) (any, bool) {
	if field.Name == "__typename" {
		return objDef.Name, true
	}

	fieldDef := field.Definition
	if fieldDef == nil {
		fieldDef = objDef.Fields.ForName(field.Name)
	}
	if fieldDef == nil {
		ec.addError(ctx, path, field.Position, fmt.Errorf("unknown field %s.%s", objDef.Name, field.Name))
		return nil, false
	}

	args, err := ec.engine.coerceArguments(fieldDef.Arguments, field.Arguments, ec.opCtx.Variables)
	if err != nil {
		ec.addError(ctx, path, field.Position, err)
		return nil, !fieldDef.Type.NonNull
	}

	value, err := ec.resolveField(ctx, objDef, fieldDef, parent, args)
	if err != nil {
		ec.addError(ctx, path, field.Position, err)
		return nil, !fieldDef.Type.NonNull
	}

	return ec.completeValue(ctx, fieldDef.Type, field, value, path)
}

func (ec *executionContext) resolveField(ctx context.Context, objDef *ast.Definition, fieldDef *ast.FieldDefinition, parent any, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error resolving %s.%s: %v", objDef.Name, fieldDef.Name, r)
		}
	}()

	if r, ok := ec.engine.resolvers[FieldKey{Type: objDef.Name, Field: fieldDef.Name}]; ok {
		return r(ctx, parent, args)
	}

	if sub := ec.engine.schema.Subscription; sub != nil && sub.Name == objDef.Name {
		return parent, nil
	}

	return defaultResolve(parent, fieldDef, args)
}

// completeValue shapes a resolved value according to typ. The boolean is
// false when the value had to be nulled and the null may not stop here.
func (ec *executionContext) completeValue(ctx context.Context, typ *ast.Type, field graphql.CollectedField, value any, path ast.Path) (any, bool) {
	v, ok := ec.completeNullable(ctx, typ, field, value, path)
	if !typ.NonNull {
		if !ok {
			return nil, true
		}
		return v, true
	}

	if !ok {
		return nil, false
	}
	if v == nil {
		ec.addError(ctx, path, field.Position, fmt.Errorf("must not be null: %s is declared as %s", field.Name, typ.String()))
		return nil, false
	}
	return v, true
}

func (ec *executionContext) completeNullable(ctx context.Context, typ *ast.Type, field graphql.CollectedField, value any, path ast.Path) (any, bool) {
	if isNil(value) {
		return nil, true
	}

	if typ.Elem != nil {
		return ec.completeList(ctx, typ, field, value, path)
	}

	def, ok := ec.engine.schema.Types[typ.Name()]
	if !ok {
		ec.addError(ctx, path, field.Position, fmt.Errorf("unknown type %s", typ.Name()))
		return nil, false
	}

	switch def.Kind {
	case ast.Scalar:
		v, err := ec.engine.serializeScalar(def.Name, value)
		if err != nil {
			ec.addError(ctx, path, field.Position, err)
			return nil, false
		}
		return v, true

	case ast.Enum:
		v, err := ec.engine.serializeEnum(def, value)
		if err != nil {
			ec.addError(ctx, path, field.Position, err)
			return nil, false
		}
		return v, true

	case ast.Object:
		obj, ok := ec.executeSelectionSet(ctx, def, field.Selections, value, path)
		if !ok {
			return nil, false
		}
		return obj, true
	}

	ec.addError(ctx, path, field.Position, fmt.Errorf("cannot complete value of abstract type %s", def.Name))
	return nil, false
}

func (ec *executionContext) completeList(ctx context.Context, typ *ast.Type, field graphql.CollectedField, value any, path ast.Path) (any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		ec.addError(ctx, path, field.Position, fmt.Errorf("expected a list for %s, got %T", typ.String(), value))
		return nil, false
	}

	items := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, ok := ec.completeValue(ctx, typ.Elem, field, elementOf(rv, i), appendPath(path, ast.PathIndex(i)))
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// elementOf returns the i-th element of a slice, as a pointer for struct
// elements so pointer-receiver methods stay reachable.
func elementOf(rv reflect.Value, i int) any {
	elem := rv.Index(i)
	if elem.Kind() == reflect.Struct && elem.CanAddr() {
		return elem.Addr().Interface()
	}
	return elem.Interface()
}
