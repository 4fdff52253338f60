// ABOUTME: Root Cobra command for the apnealog CLI.
// ABOUTME: Opens config, repositories, and the integrity coordinator via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harperreed/apnealog/internal/config"
	"github.com/harperreed/apnealog/internal/integrity"
	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/metrics"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	repos     *storage.Repositories
	coord     *integrity.Coordinator
	publisher integrity.Publisher
	log       logger.Logger
	meter     *metrics.Manager

	flagBackend  string
	flagDataDir  string
	flagLocation string
	flagLogLevel string
)

// noBackend marks commands that run without opening the storage backend.
const noBackend = "no-backend"

var skipRepos = map[string]bool{
	"help":       true,
	"version":    true,
	"completion": true,
}

func needsBackend(cmd *cobra.Command) bool {
	return !skipRepos[cmd.Name()] && cmd.Annotations[noBackend] == ""
}

var rootCmd = &cobra.Command{
	Use:   "apnealog",
	Short: "Apnea club performance log",
	Long: `Apnealog keeps an apnea club's performances, profiles, sessions, and
instructor feedback in four plain tables, and ranks divers per discipline.

DISCIPLINES:

  sta            Static apnea, entered as MM:SS[.mmm]     higher is better
  dyn            Dynamic monofin, entered in meters       higher is better
  dyn_bf         Dynamic bi-fins, entered in meters       higher is better
  dnf            Dynamic no-fins, entered in meters       higher is better
  depth          Constant weight depth, in meters         higher is better
  sprint_16x25   16x25m speed endurance, MM:SS[.mmm]      lower is better

QUICK START:

  $ apnealog profile add Alice --cert A2      # Register a diver
  $ apnealog session add "Pool Longchamp"     # Open today's session
  $ apnealog record add Alice sta 04:30       # Log a static
  $ apnealog record add Alice dyn 75m -s 3f2a # Log a dynamic in a session
  $ apnealog rank sta                         # Club ranking for static
  $ apnealog best Alice                       # Alice's personal bests

MAINTENANCE:

  $ apnealog profile rename Alice Alicia      # Rename everywhere
  $ apnealog session delete 3f2a              # Delete and unlink
  $ apnealog repair                           # Drop dangling session links

STORAGE BACKENDS:

  sqlite (default), yaml, badger, charm, postgres, memory.
  Choose with --backend or "backend:" in ~/.config/apnealog/config.yaml.
  Environment variables override the file, e.g. APNEALOG_BACKEND=yaml.

MCP INTEGRATION:

  Run 'apnealog mcp' to serve the club log to MCP-compatible assistants:

  {
    "mcpServers": {
      "apnealog": { "command": "apnealog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// PostRunE is skipped when RunE fails
		if err := closeRepos(); err != nil {
			return err
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		// Skip backend init for commands that don't need it
		if !needsBackend(cmd) {
			return nil
		}
		return openRepos(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRepos()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend (sqlite, yaml, badger, charm, postgres, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for local backends")
	rootCmd.PersistentFlags().StringVar(&flagLocation, "location", "", "Sheet location holding the club tables")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLocation != "" {
		c.Location = flagLocation
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func openRepos(cmd *cobra.Command) error {
	var err error
	log, err = cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	meter = metrics.NewManager()
	repos, err = cfg.OpenRepositories(cmd.Context(),
		storage.WithLogger(log),
		storage.WithMetrics(meter),
	)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	publisher = cfg.NewPublisher()
	coord = integrity.New(repos,
		integrity.WithPublisher(publisher),
		integrity.WithLogger(log),
	)
	return nil
}

func closeRepos() error {
	var errs []error
	if publisher != nil {
		errs = append(errs, publisher.Close())
		publisher = nil
	}
	if repos != nil {
		errs = append(errs, repos.Close())
		repos = nil
	}
	coord = nil
	return errors.Join(errs...)
}
