package engine

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// subscribe opens the event source of the operation's single root field.
// The returned handler blocks for the next event and executes the selection
// set with that event as root value; it returns nil once the source closes
// or ctx is done. Errors raised while opening the source are added to ctx.
func (ec *executionContext) subscribe(ctx context.Context) graphql.ResponseHandler {
	root := ec.engine.schema.Subscription
	if root == nil {
		graphql.AddErrorf(ctx, "schema does not support subscriptions")
		return exhausted
	}

	fields := ec.collectFields(root, ec.opCtx.Operation.SelectionSet)
	if len(fields) != 1 {
		graphql.AddErrorf(ctx, "subscription must select exactly one top level field")
		return exhausted
	}
	field := fields[0]

	open, ok := ec.engine.streams[field.Name]
	if !ok {
		graphql.AddError(ctx, gqlerror.ErrorPosf(field.Position, "no event source for subscription field %q", field.Name))
		return exhausted
	}

	var argDefs ast.ArgumentDefinitionList
	if def := root.Fields.ForName(field.Name); def != nil {
		argDefs = def.Arguments
	}
	args, err := ec.engine.coerceArguments(argDefs, field.Arguments, ec.opCtx.Variables)
	if err != nil {
		graphql.AddError(ctx, gqlerror.ErrorPosf(field.Position, "%s", err.Error()))
		return exhausted
	}

	source, err := open(ctx, args)
	if err != nil {
		graphql.AddError(ctx, gqlerror.ErrorPosf(field.Position, "subscribing to %s: %s", field.Name, err))
		return exhausted
	}

	return func(ctx context.Context) *graphql.Response {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-source:
			if !ok {
				return nil
			}
			data, ok := ec.executeSelectionSet(ctx, root, ec.opCtx.Operation.SelectionSet, event, nil)
			return ec.response(ctx, data, ok)
		}
	}
}
