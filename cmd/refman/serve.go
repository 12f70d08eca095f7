package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/search"
	"github.com/ncukondo/reference-manager-sub005/internal/server"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8377", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library over a local HTTP API",
	Long: `Serve the library over HTTP for editors and scripts.

Endpoints:
  GET    /health
  GET    /api/v1/references         search (?q=, ?sort=, ?limit=, ?offset=)
  POST   /api/v1/references         add records (?force=true to skip dedup)
  GET    /api/v1/references/{id}
  PATCH  /api/v1/references/{id}
  DELETE /api/v1/references/{id}

The server holds the library in memory for its lifetime; it is meant as a
single local writer, not a shared multi-user service.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	root := mustResolveLibrary()
	lib := mustOpenLibrary(root)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var lookup search.FulltextLookup
	if cache := openFulltextCache(root); cache != nil {
		defer cache.Close()
		lookup = cache.Lookup
	}

	srv := server.NewServer(lib, lookup, logger)

	logger.Info("serving library", "addr", serveAddr, "library", root)
	if err := http.ListenAndServe(serveAddr, srv); err != nil {
		exitWithError(ExitError, "server: %v", err)
	}
	return nil
}
