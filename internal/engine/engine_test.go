package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const testSchema = `
scalar Stamp

enum Color { RED GREEN }

type Owner { name: String! }

type Item {
  id: ID!
  name: String!
  color: Color
  stamp: Stamp
  tags: [String!]!
  owner: Owner
  broken: String!
}

input ItemInput {
  id: ID
  name: String
  stamp: Stamp
  tags: [String!]
}

type Query {
  items: [Item]
  item(id: ID): Item
  echo(input: ItemInput): String
  stamp(at: Stamp): Stamp
  greet(name: String = "world"): String!
  fail: String
}

type Mutation {
  addItem(input: ItemInput): [Item]
}

type Subscription {
  itemAdded: Item
}
`

type stamp int64

type stampCodec struct{}

func (stampCodec) ParseValue(v any) (any, error) {
	switch v := v.(type) {
	case float64:
		return stamp(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad stamp %q", v)
		}
		return stamp(n), nil
	}
	return nil, fmt.Errorf("bad stamp %v", v)
}

func (stampCodec) Serialize(v any) (any, error) {
	switch v := v.(type) {
	case stamp:
		return int64(v), nil
	case *stamp:
		return int64(*v), nil
	}
	return nil, fmt.Errorf("not a stamp: %T", v)
}

func (stampCodec) ParseLiteral(lit Literal) any {
	if lit.Kind != LiteralInt {
		return nil
	}
	n, err := strconv.ParseInt(lit.Raw, 10, 64)
	if err != nil {
		return nil
	}
	return stamp(n)
}

type owner struct {
	Name string `json:"name"`
}

type item struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Color *string  `json:"color,omitempty"`
	Stamp *stamp   `json:"stamp,omitempty"`
	Tags  []string `json:"tags"`
	Owner *owner   `json:"owner,omitempty"`
}

type testEnv struct {
	engine *Engine
	items  []*item
	events chan any
}

func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		engine: New(MustLoadSchema("test.graphqls", testSchema)),
		events: make(chan any, 4),
	}
	red := "RED"
	s := stamp(42)
	env.items = []*item{
		{ID: "1", Name: "first", Color: &red, Stamp: &s, Tags: []string{"a"}, Owner: &owner{Name: "ann"}},
		{ID: "2", Name: "second", Tags: []string{}},
	}

	e := env.engine
	e.Scalar("Stamp", stampCodec{})
	e.Resolve("Query", "items", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		return env.items, nil
	})
	e.Resolve("Query", "item", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		id, _ := args["id"].(string)
		for _, it := range env.items {
			if it.ID == id {
				return it, nil
			}
		}
		return nil, nil
	})
	e.Resolve("Query", "echo", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		b, err := json.Marshal(args["input"])
		return string(b), err
	})
	e.Resolve("Query", "stamp", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		return args["at"], nil
	})
	e.Resolve("Query", "greet", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		return "hello " + args["name"].(string), nil
	})
	e.Resolve("Query", "fail", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
	e.Resolve("Item", "broken", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		return nil, nil
	})
	e.Resolve("Mutation", "addItem", func(ctx context.Context, parent any, args map[string]any) (any, error) {
		input, _ := args["input"].(map[string]any)
		it := &item{Tags: []string{}}
		if id, ok := input["id"].(string); ok {
			it.ID = id
		}
		if name, ok := input["name"].(string); ok {
			it.Name = name
		}
		env.items = append(env.items, it)
		env.events <- it
		return env.items, nil
	})
	e.Stream("itemAdded", func(ctx context.Context, args map[string]any) (<-chan any, error) {
		out := make(chan any)
		go func() {
			defer close(out)
			for {
				select {
				case ev := <-env.events:
					select {
					case out <- ev:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		return out, nil
	})

	return env
}

// dispatch prepares params on a fresh executor with introspection enabled
// and returns the operation's response handler.
func dispatch(ctx context.Context, e *Engine, params *graphql.RawParams, exts ...graphql.HandlerExtension) (graphql.ResponseHandler, context.Context, gqlerror.List) {
	exec := executor.New(e)
	exec.Use(extension.Introspection{})
	for _, ext := range exts {
		exec.Use(ext)
	}

	ctx = graphql.StartOperationTrace(ctx)
	opCtx, errs := exec.CreateOperationContext(ctx, params)
	if errs != nil {
		return nil, ctx, errs
	}
	handler, ctx := exec.DispatchOperation(ctx, opCtx)
	return handler, ctx, nil
}

// run executes params and returns the first response.
func run(t *testing.T, e *Engine, params *graphql.RawParams) *graphql.Response {
	t.Helper()
	handler, ctx, errs := dispatch(context.Background(), e, params)
	if errs != nil {
		return &graphql.Response{Errors: errs}
	}
	resp := handler(ctx)
	if resp == nil {
		t.Fatal("handler returned no response")
	}
	return resp
}

func execute(t *testing.T, e *Engine, query string, vars map[string]any) (map[string]any, gqlerror.List) {
	t.Helper()
	resp := run(t, e, &graphql.RawParams{Query: query, Variables: vars})
	if resp.Data == nil {
		return nil, resp.Errors
	}
	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("invalid response data %s: %v", resp.Data, err)
	}
	return data, resp.Errors
}

func TestExecuteQuery(t *testing.T) {
	env := setupTestEngine(t)

	t.Run("list with nested objects", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ items { id name color stamp tags owner { name } } }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		items := data["items"].([]any)
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		first := items[0].(map[string]any)
		if first["color"] != "RED" {
			t.Errorf("color = %v, want RED", first["color"])
		}
		if first["stamp"] != float64(42) {
			t.Errorf("stamp = %v, want 42", first["stamp"])
		}
		if first["owner"].(map[string]any)["name"] != "ann" {
			t.Errorf("owner.name = %v", first["owner"])
		}
		second := items[1].(map[string]any)
		if second["color"] != nil || second["owner"] != nil {
			t.Errorf("unset fields should be null: %v", second)
		}
	})

	t.Run("keys follow selection order", func(t *testing.T) {
		resp := run(t, env.engine, &graphql.RawParams{Query: `{ item(id: "1") { name id } }`})
		want := `{"item":{"name":"first","id":"1"}}`
		if string(resp.Data) != want {
			t.Errorf("Data = %s, want %s", resp.Data, want)
		}
	})

	t.Run("missing item is null without error", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ item(id: "nope") { id } }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if v, ok := data["item"]; !ok || v != nil {
			t.Errorf("item = %v, want null", v)
		}
	})

	t.Run("omitted optional argument", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ item { id } }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if data["item"] != nil {
			t.Errorf("item = %v, want null", data["item"])
		}
	})

	t.Run("default argument", func(t *testing.T) {
		data, _ := execute(t, env.engine, `{ a: greet b: greet(name: "you") }`, nil)
		if data["a"] != "hello world" || data["b"] != "hello you" {
			t.Errorf("got %v", data)
		}
	})

	t.Run("typename", func(t *testing.T) {
		data, _ := execute(t, env.engine, `{ __typename item(id: "2") { __typename } }`, nil)
		if data["__typename"] != "Query" {
			t.Errorf("__typename = %v", data["__typename"])
		}
		if data["item"].(map[string]any)["__typename"] != "Item" {
			t.Errorf("item.__typename = %v", data["item"])
		}
	})
}

func TestFragmentsAndDirectives(t *testing.T) {
	env := setupTestEngine(t)

	query := `
query Q($withName: Boolean!) {
  item(id: "1") {
    ...Basics
    ... on Item { tags }
    name @include(if: $withName)
    color @skip(if: true)
  }
}
fragment Basics on Item { id }`

	data, errs := execute(t, env.engine, query, map[string]any{"withName": false})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := data["item"].(map[string]any)
	if got["id"] != "1" {
		t.Errorf("id = %v", got["id"])
	}
	if _, ok := got["tags"]; !ok {
		t.Error("inline fragment field missing")
	}
	if _, ok := got["name"]; ok {
		t.Error("name should be excluded by @include(if: false)")
	}
	if _, ok := got["color"]; ok {
		t.Error("color should be excluded by @skip(if: true)")
	}
}

func TestNonNullPropagation(t *testing.T) {
	env := setupTestEngine(t)

	data, errs := execute(t, env.engine, `{ item(id: "1") { id broken } greet }`, nil)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if data["item"] != nil {
		t.Errorf("item = %v, want null after non-null violation", data["item"])
	}
	if data["greet"] != "hello world" {
		t.Errorf("sibling field should still resolve, got %v", data["greet"])
	}
	path := fmt.Sprint(errs[0].Path)
	if !strings.Contains(path, "broken") {
		t.Errorf("error path = %v, want it to mention broken", errs[0].Path)
	}
}

func TestResolverError(t *testing.T) {
	env := setupTestEngine(t)

	data, errs := execute(t, env.engine, `{ fail greet }`, nil)
	if len(errs) != 1 || errs[0].Message != "boom" {
		t.Fatalf("errors = %v, want boom", errs)
	}
	if data["fail"] != nil || data["greet"] != "hello world" {
		t.Errorf("data = %v", data)
	}
	if len(errs[0].Locations) != 1 {
		t.Errorf("expected error location, got %v", errs[0].Locations)
	}
}

func TestScalarCoercion(t *testing.T) {
	env := setupTestEngine(t)

	t.Run("integer literal", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ stamp(at: 700000) }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if data["stamp"] != float64(700000) {
			t.Errorf("stamp = %v, want 700000", data["stamp"])
		}
	})

	t.Run("string literal yields null", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ stamp(at: "soon") }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if v, ok := data["stamp"]; !ok || v != nil {
			t.Errorf("stamp = %v, want null", v)
		}
	})

	t.Run("variable uses ParseValue", func(t *testing.T) {
		data, errs := execute(t, env.engine, `query($s: Stamp) { stamp(at: $s) }`, map[string]any{"s": "7"})
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if data["stamp"] != float64(7) {
			t.Errorf("stamp = %v, want 7", data["stamp"])
		}
	})

	t.Run("variable ParseValue error", func(t *testing.T) {
		data, errs := execute(t, env.engine, `query($s: Stamp) { stamp(at: $s) }`, map[string]any{"s": "x"})
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %v", errs)
		}
		if data["stamp"] != nil {
			t.Errorf("stamp = %v, want null", data["stamp"])
		}
	})
}

func TestInputObjectCoercion(t *testing.T) {
	env := setupTestEngine(t)

	t.Run("literal", func(t *testing.T) {
		data, errs := execute(t, env.engine, `{ echo(input: {id: "z", stamp: 5, tags: "solo"}) }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		want := `{"id":"z","stamp":5,"tags":["solo"]}`
		if data["echo"] != want {
			t.Errorf("echo = %v, want %s", data["echo"], want)
		}
	})

	t.Run("variables", func(t *testing.T) {
		vars := map[string]any{"in": map[string]any{"name": "n", "stamp": float64(9)}}
		data, errs := execute(t, env.engine, `query($in: ItemInput) { echo(input: $in) }`, vars)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		want := `{"name":"n","stamp":9}`
		if data["echo"] != want {
			t.Errorf("echo = %v, want %s", data["echo"], want)
		}
	})

	t.Run("nested variable", func(t *testing.T) {
		data, errs := execute(t, env.engine, `query($n: String) { echo(input: {name: $n}) }`, nil)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if data["echo"] != `{}` {
			t.Errorf("echo = %v, want {}", data["echo"])
		}
	})
}

func TestValidationErrors(t *testing.T) {
	env := setupTestEngine(t)

	tests := []struct {
		name  string
		query string
	}{
		{"syntax error", `{ items { id `},
		{"unknown field", `{ nope }`},
		{"missing selection", `{ items }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := run(t, env.engine, &graphql.RawParams{Query: tt.query})
			if len(resp.Errors) == 0 {
				t.Fatal("expected errors")
			}
			if resp.Data != nil {
				t.Errorf("Data = %s, want absent", resp.Data)
			}
		})
	}
}

func TestOperationSelection(t *testing.T) {
	env := setupTestEngine(t)
	doc := `query A { greet } query B { greet(name: "b") }`

	resp := run(t, env.engine, &graphql.RawParams{Query: doc})
	if len(resp.Errors) == 0 {
		t.Error("expected error without operation name")
	}

	resp = run(t, env.engine, &graphql.RawParams{Query: doc, OperationName: "B"})
	if string(resp.Data) != `{"greet":"hello b"}` {
		t.Errorf("Data = %s", resp.Data)
	}

	resp = run(t, env.engine, &graphql.RawParams{Query: doc, OperationName: "C"})
	if len(resp.Errors) == 0 {
		t.Error("expected error for unknown operation")
	}
}

func TestMutation(t *testing.T) {
	env := setupTestEngine(t)

	data, errs := execute(t, env.engine, `mutation { addItem(input: {id: "3", name: "third"}) { id } }`, nil)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	items := data["addItem"].([]any)
	if len(items) != 3 || items[2].(map[string]any)["id"] != "3" {
		t.Errorf("addItem = %v", items)
	}
}

func TestSubscription(t *testing.T) {
	env := setupTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, ctx, errs := dispatch(ctx, env.engine, &graphql.RawParams{Query: `subscription { itemAdded { id name } }`})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	env.events <- &item{ID: "9", Name: "ninth"}
	env.events <- &item{ID: "10", Name: "tenth"}

	for _, want := range []string{
		`{"itemAdded":{"id":"9","name":"ninth"}}`,
		`{"itemAdded":{"id":"10","name":"tenth"}}`,
	} {
		resp := handler(ctx)
		if resp == nil {
			t.Fatal("stream ended early")
		}
		if string(resp.Data) != want {
			t.Errorf("Data = %s, want %s", resp.Data, want)
		}
	}

	cancel()
	done := make(chan *graphql.Response, 1)
	go func() { done <- handler(ctx) }()
	select {
	case resp := <-done:
		if resp != nil {
			t.Errorf("expected end of stream after cancellation, got %s", resp.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("handler still blocked after cancellation")
	}
}

func TestSubscriptionErrors(t *testing.T) {
	t.Run("unknown field fails validation", func(t *testing.T) {
		env := setupTestEngine(t)
		_, _, errs := dispatch(context.Background(), env.engine, &graphql.RawParams{Query: `subscription { nope }`})
		if len(errs) == 0 {
			t.Error("expected validation errors")
		}
	})

	t.Run("missing event source", func(t *testing.T) {
		e := New(MustLoadSchema("test.graphqls", testSchema))
		resp := run(t, e, &graphql.RawParams{Query: `subscription { itemAdded { id } }`})
		if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0].Message, "no event source") {
			t.Errorf("errors = %v, want missing event source", resp.Errors)
		}
		if resp.Data != nil {
			t.Errorf("Data = %s, want absent", resp.Data)
		}
	})

	t.Run("source open error", func(t *testing.T) {
		e := New(MustLoadSchema("test.graphqls", testSchema))
		e.Stream("itemAdded", func(ctx context.Context, args map[string]any) (<-chan any, error) {
			return nil, errors.New("closed for business")
		})
		resp := run(t, e, &graphql.RawParams{Query: `subscription { itemAdded { id } }`})
		if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0].Message, "closed for business") {
			t.Errorf("errors = %v, want source error", resp.Errors)
		}
	})
}

func TestQueryHandlerRespondsOnce(t *testing.T) {
	env := setupTestEngine(t)
	handler, ctx, errs := dispatch(context.Background(), env.engine, &graphql.RawParams{Query: `{ greet }`})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resp := handler(ctx); resp == nil || string(resp.Data) != `{"greet":"hello world"}` {
		t.Fatalf("first response = %v", resp)
	}
	if resp := handler(ctx); resp != nil {
		t.Errorf("second call = %s, want nil", resp.Data)
	}
}

func TestComplexityLimit(t *testing.T) {
	env := setupTestEngine(t)

	_, _, errs := dispatch(context.Background(), env.engine,
		&graphql.RawParams{Query: `{ greet fail items { id } }`},
		extension.FixedComplexityLimit(2))
	if len(errs) == 0 {
		t.Error("expected complexity limit error")
	}

	_, _, errs = dispatch(context.Background(), env.engine,
		&graphql.RawParams{Query: `{ greet }`},
		extension.FixedComplexityLimit(2))
	if errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestIntrospection(t *testing.T) {
	env := setupTestEngine(t)

	data, errs := execute(t, env.engine, `{
  __schema { queryType { name } subscriptionType { name } }
  __type(name: "Item") { name kind fields { name } }
  missing: __type(name: "Nope") { name }
}`, nil)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	schema := data["__schema"].(map[string]any)
	if schema["queryType"].(map[string]any)["name"] != "Query" {
		t.Errorf("queryType = %v", schema["queryType"])
	}

	typ := data["__type"].(map[string]any)
	if typ["name"] != "Item" || typ["kind"] != "OBJECT" {
		t.Errorf("__type = %v", typ)
	}
	fields := typ["fields"].([]any)
	if len(fields) != 7 {
		t.Errorf("expected 7 Item fields, got %d", len(fields))
	}
	if data["missing"] != nil {
		t.Errorf("missing = %v, want null", data["missing"])
	}
}

func TestIntrospectionDisabled(t *testing.T) {
	env := setupTestEngine(t)

	exec := executor.New(env.engine)
	ctx := graphql.StartOperationTrace(context.Background())
	opCtx, errs := exec.CreateOperationContext(ctx, &graphql.RawParams{Query: `{ __type(name: "Item") { name } greet }`})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	handler, ctx := exec.DispatchOperation(ctx, opCtx)
	resp := handler(ctx)

	if len(resp.Errors) != 1 || resp.Errors[0].Message != "introspection disabled" {
		t.Fatalf("errors = %v, want introspection disabled", resp.Errors)
	}
	if !strings.Contains(string(resp.Data), `"greet":"hello world"`) {
		t.Errorf("Data = %s, want greet resolved", resp.Data)
	}
}

func TestCheck(t *testing.T) {
	env := setupTestEngine(t)
	if unknown := env.engine.Check(); len(unknown) != 0 {
		t.Errorf("Check() = %v, want none", unknown)
	}

	env.engine.Resolve("Item", "ghost", func(ctx context.Context, parent any, args map[string]any) (any, error) { return nil, nil })
	unknown := env.engine.Check()
	if len(unknown) != 1 || unknown[0].String() != "Item.ghost" {
		t.Errorf("Check() = %v, want [Item.ghost]", unknown)
	}
}

func TestSDL(t *testing.T) {
	env := setupTestEngine(t)
	sdl := env.engine.SDL()
	for _, want := range []string{"type Item", "scalar Stamp", "input ItemInput"} {
		if !strings.Contains(sdl, want) {
			t.Errorf("SDL() missing %q", want)
		}
	}
}

func TestLoadSchemaError(t *testing.T) {
	if _, err := LoadSchema("bad.graphqls", `type Query { x: Nope }`); err == nil {
		t.Error("expected error for undefined type")
	}
}
