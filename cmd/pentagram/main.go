// pentagram — a fan-out/fan-in cognitive core.
//
// Routes experiences through four parallel faculties (Ledger, Garden,
// Mirror, Compass) and then Orchestra, analyzes their pairwise tensions, and
// synthesizes a unified decision. Tracks identity drift against a
// persistent scar file and a bounded development level over a sliding
// window of recent cycles.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/drift"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/identity"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/kernel"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/llmprovider"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/logging"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/mcptools"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/memstore"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/metrics"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/monitor"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
	"github.com/dmitriimaksimovdevelop/pentagram/internal/vertex"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pentagram",
		Short: "A five-faculty cognitive core",
		Long: `pentagram — single Go binary running a fan-out/fan-in cognitive pipeline.

Four faculties (Ledger, Garden, Mirror, Compass) vote on every experience
in parallel, then Orchestra votes with their votes in hand. Pairwise
disagreements among the four are scored as tensions, and the Metabolic Kernel synthesizes a unified decision.
An Identity Topology checks behavioral drift against a persistent scar
file, and a Development Monitor tracks a bounded growth signal over a
sliding window of recent cycles.`,
		Version: version,
	}

	var (
		dbPath     string
		scarPath   string
		windowSize int
	)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "pentagram.db", "path to the BoltDB state file")
	rootCmd.PersistentFlags().StringVar(&scarPath, "scar", "", "path to the identity scar JSON file")
	rootCmd.PersistentFlags().IntVar(&windowSize, "window", 0, "sliding window size for drift/development tracking (0 = default)")

	var (
		runMessage string
		runUserID  string
		runGroupID string
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process one experience through the full pentagram cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(dbPath, scarPath, windowSize)
			if err != nil {
				return err
			}
			defer closeFn()

			if runMessage == "" {
				return fmt.Errorf("--message is required")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result := svc.ProcessExperience(ctx, pentagram.Experience{
				Message: runMessage,
				UserID:  runUserID,
				GroupID: runGroupID,
			})
			return printJSON(result)
		},
	}
	runCmd.Flags().StringVarP(&runMessage, "message", "m", "", "the message to process")
	runCmd.Flags().StringVar(&runUserID, "user-id", "", "user scope for memory")
	runCmd.Flags().StringVar(&runGroupID, "group-id", "", "group scope for memory")

	mcpCmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Start the Model Context Protocol (MCP) server over stdio",
		Long: `Starts a JSON-RPC server implementing the Model Context Protocol (MCP).
This allows AI agents to interactively drive the pentagram core: process
experiences, check drift, read the development level, and propose identity
changes.

Communication happens over standard input/output (stdio).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(dbPath, scarPath, windowSize)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcptools.NewServer(version, svc)
			return srv.Start(ctx)
		},
	}

	driftCmd := &cobra.Command{
		Use:   "drift",
		Short: "Check identity drift over the recent cycle window",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(dbPath, scarPath, windowSize)
			if err != nil {
				return err
			}
			defer closeFn()
			return printJSON(svc.CheckDrift())
		},
	}

	developCmd := &cobra.Command{
		Use:   "develop",
		Short: "Report the current bounded development level",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(dbPath, scarPath, windowSize)
			if err != nil {
				return err
			}
			defer closeFn()
			return printJSON(svc.DevelopmentLevel())
		},
	}

	rootCmd.AddCommand(runCmd, mcpCmd, driftCmd, developCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService assembles a Kernel with the five default faculties, a
// BoltDB-backed memory store, an identity topology (loaded from scarPath if
// given), a drift detector, and a development monitor. The returned close
// function must be called once the service is no longer needed.
func buildService(dbPath, scarPath string, windowSize int) (*mcptools.Service, func(), error) {
	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON})

	db, err := memstore.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open state db: %w", err)
	}

	store := memstore.NewStore(db)
	lm := llmprovider.New()
	m := metrics.NewMetrics()

	k := kernel.New(lm, log)
	k.RegisterVertex(vertex.NewLedgerVertex(vertex.NewBase(pentagram.Ledger, lm, log), store))
	k.RegisterVertex(vertex.NewGardenVertex(vertex.NewBase(pentagram.Garden, lm, log)))
	k.RegisterVertex(vertex.NewMirrorVertex(vertex.NewBase(pentagram.Mirror, lm, log)))
	k.RegisterVertex(vertex.NewCompassVertex(vertex.NewBase(pentagram.Compass, lm, log)))
	k.RegisterVertex(vertex.NewOrchestraVertex(vertex.NewBase(pentagram.Orchestra, lm, log)))

	topology := identity.New(db)
	if scarPath != "" {
		if _, err := topology.Load(scarPath); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("load identity scar file: %w", err)
		}
	}

	svc := &mcptools.Service{
		Kernel:   k,
		Topology: topology,
		Drift:    drift.New(topology, windowSize),
		Monitor:  monitor.New(windowSize, db),
		Metrics:  m,
	}

	return svc, func() { _ = db.Close() }, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
