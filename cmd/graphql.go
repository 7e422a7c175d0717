package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/term"

	"github.com/hmans/moviegraph/internal/auth"
	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/engine"
	"github.com/hmans/moviegraph/internal/graph"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errNoQuery      = errors.New("no query given: pass it as an argument or pipe it to stdin")
	errSubscription = errors.New("subscriptions need a live connection; use the /graphql endpoint of `moviegraph serve`")
)

var (
	queryJSON       bool
	queryVariables  string
	queryOperation  string
	querySchemaOnly bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql <query>",
	Aliases: []string{"query"},
	Short:   "Run a GraphQL query or mutation against the catalog",
	Long: `Runs one GraphQL operation against the catalog loaded from disk and
prints the data portion of the response.

Mutations act on this process only: the catalog file is left untouched.
Subscriptions need a running server (see "moviegraph serve").

Examples:
  moviegraph graphql '{ movies { id title releaseDate } }'
  moviegraph graphql '{ movie(id: "uqodhg") { title actor { name } } }'
  moviegraph graphql '{ searchMovies(query: "shiva") { id title } }'
  moviegraph graphql -v '{"id": "ashldja"}' 'query GetMovie($id: ID) { movie(id: $id) { title } }'
  moviegraph graphql < query.graphql
  moviegraph graphql --schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if !querySchemaOnly && len(args) > 1 {
			return fmt.Errorf("expected a single query argument, got %d (quote the query)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return printSchema(cmd.OutOrStdout())
		}

		query, err := queryText(args)
		if err != nil {
			return err
		}

		var variables map[string]any
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("parsing --variables: %w", err)
			}
		}

		result, err := executeQuery(cmd.Context(), query, variables, queryOperation)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if queryJSON {
			fmt.Fprintln(out, string(result))
			return nil
		}
		prettyPrint(out, result)
		return nil
	},
}

// queryText takes the query from the argument, or from stdin when it is
// piped in.
func queryText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	info, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("inspecting stdin: %w", err)
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", errNoQuery
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", errNoQuery
	}
	return query, nil
}

// executeQuery runs one operation against the loaded catalog and returns the
// response data. Any GraphQL error fails the whole call.
func executeQuery(ctx context.Context, query string, variables map[string]any, operationName string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxlog.WithLogger(ctx, logger)
	ctx = auth.WithIdentity(ctx, auth.Identity{Name: cfg.Auth.Identity})

	exec := executor.New(newExecutableSchema())
	exec.Use(extension.Introspection{})

	ctx = graphql.StartOperationTrace(ctx)
	opCtx, errs := exec.CreateOperationContext(ctx, &graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if errs != nil {
		return nil, formatGraphQLErrors(errs)
	}
	if opCtx.Operation.Operation == ast.Subscription {
		return nil, errSubscription
	}

	handler, ctx := exec.DispatchOperation(ctx, opCtx)
	resp := handler(ctx)
	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(resp.Errors)
	}
	return resp.Data, nil
}

func newExecutableSchema() *engine.Engine {
	return graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Core: core},
	})
}

// formatGraphQLErrors folds a response's error list into one error value.
func formatGraphQLErrors(errs gqlerror.List) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("graphql: %s", errs[0].Message)
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = "- " + e.Message
	}
	return fmt.Errorf("graphql: %d errors\n%s", len(errs), strings.Join(lines, "\n"))
}

// prettyPrint indents data and adds colour when stdout is a terminal.
func prettyPrint(w io.Writer, data []byte) {
	out := pretty.Pretty(data)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out = pretty.Color(out, nil)
	}
	fmt.Fprint(w, string(out))
}

// printSchema writes the schema as SDL.
func printSchema(w io.Writer) error {
	_, err := fmt.Fprint(w, newExecutableSchema().SDL())
	return err
}

func init() {
	graphqlCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the response data as compact JSON")
	graphqlCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Variables as a JSON object")
	graphqlCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation to run when the document has several")
	graphqlCmd.Flags().BoolVar(&querySchemaOnly, "schema", false, "Print the schema SDL instead of running a query")
	rootCmd.AddCommand(graphqlCmd)
}
