package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/catalog"
	"github.com/hmans/moviegraph/internal/ctxlog"
	"github.com/hmans/moviegraph/internal/movie"
	"github.com/hmans/moviegraph/internal/server"
)

var (
	servePort  int
	serveHost  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST, or GET for queries)
  - Subscriptions at /graphql as server-sent events (Accept: text/event-stream)
  - GraphQL Playground at /playground
  - Schema SDL at /schema and a health check at /healthz

With --watch, movies appended to the catalog file while the server runs are
added as if through the addMovie mutation.

Examples:
  # Start server on the configured port (default 4000, or $PORT)
  moviegraph serve

  # Start server on a custom port
  moviegraph serve --port 3000

  # Pick up movies appended to a catalog file
  moviegraph serve --catalog movies.yml --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("watch") {
			cfg.Catalog.Watch = serveWatch
		}
		return runServer()
	},
}

func runServer() error {
	srv := server.New(core, cfg, logger)
	httpServer := srv.HTTPServer()

	// Set up signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Catalog.Watch {
		watcher, err := startCatalogWatcher(ctx)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	// Channel to listen for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", httpServer.Addr)
		fmt.Printf("GraphQL endpoint: http://localhost:%d/graphql\n", cfg.Server.Port)
		if cfg.Server.Playground {
			fmt.Printf("GraphQL Playground: http://localhost:%d/playground\n", cfg.Server.Port)
		}
		serverErr <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		fmt.Printf("\nShutting down...\n")

		// End open subscriptions so their streams complete
		core.Events().Close()

		// Create context with timeout for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		fmt.Println("Server stopped")
	}

	return nil
}

// startCatalogWatcher adds movies appended to the catalog file through the
// mutation path, so subscribers see them.
func startCatalogWatcher(ctx context.Context) (*catalog.Watcher, error) {
	if cfg.Catalog.Path == "" {
		return nil, errors.New("--watch needs a catalog file (set --catalog or catalog.path)")
	}

	watcher := catalog.NewWatcher(cfg.Catalog.Path, seeded, logger)
	err := watcher.Start(func(movies []*movie.Movie) {
		addCtx := ctxlog.WithLogger(ctx, logger.With("source", "catalog"))
		for _, m := range movies {
			core.AddMovie(addCtx, m.Input())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("watching catalog: %w", err)
	}
	return watcher, nil
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4000, "Port to listen on (overrides config and $PORT)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Add movies appended to the catalog file")
	rootCmd.AddCommand(serveCmd)
}
