// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the configured backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server exposes the club log to MCP-compatible assistants over
stdin/stdout, using the same backend and configuration as the CLI.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "apnealog": {
        "command": "apnealog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_record       Record a performance for a diver
  list_records     List recent records
  delete_record    Delete a record by ID
  rankings         Rank a discipline (anonymized names hidden)
  personal_bests   A diver's best per discipline
  add_session      Create an activity session
  delete_session   Delete a session and unlink its records
  add_feedback     Add instructor feedback
  rename_user      Rename a diver everywhere
  delete_user      Delete a profile, keeping history

AVAILABLE RESOURCES:

  apnealog://rankings    Rankings for every discipline
  apnealog://sessions    Sessions with linked record counts

METRICS:

  apnealog mcp --metrics-addr 127.0.0.1:9464

serves table and cascade counters at /metrics while the server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repos, coord)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		if mcpMetricsAddr != "" {
			stop := serveMetrics(ctx, mcpMetricsAddr)
			defer stop()
		}

		return server.Serve(ctx)
	},
}

// serveMetrics exposes the store counters over HTTP until the returned
// function is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", meter.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info(ctx, "metrics listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server error", logger.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(mcpCmd)
}
