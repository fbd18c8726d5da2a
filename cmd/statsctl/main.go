// Command statsctl loads, normalizes and inspects player and standings
// documents.
//
// Usage:
//
//	statsctl normalize --players players.json --teams teams.json
//	statsctl inspect players.json
//	statsctl classify a.json b.json
//	statsctl import a.json b.json
//	statsctl quality --players https://cdn.example.com/players.json
//	statsctl player a-dupont
//	statsctl club psg --availability
//	statsctl watch --players https://cdn.example.com/players.json --interval 10m
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/foot-stats-coach/external/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/app"
	"github.com/riskibarqy/foot-stats-coach/internal/config"
	domainsource "github.com/riskibarqy/foot-stats-coach/internal/domain/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/observability"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/schema"
	"github.com/riskibarqy/foot-stats-coach/internal/usecase"
)

type cli struct {
	playersLocation string
	teamsLocation   string
	chunkSize       int
	progress        bool

	app      *app.App
	shutdown []func(context.Context) error
}

func main() {
	_ = godotenv.Load(".env")

	c := &cli{}
	root := &cobra.Command{
		Use:               "statsctl",
		Short:             "Normalize and inspect football stats documents",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
	}
	root.PersistentFlags().StringVar(&c.playersLocation, "players", "", "players document (path or http(s) URL, default PLAYERS_JSON_URL)")
	root.PersistentFlags().StringVar(&c.teamsLocation, "teams", "", "teams/standings document (path or http(s) URL, default TEAMS_JSON_URL)")
	root.PersistentFlags().IntVar(&c.chunkSize, "chunk-size", 0, "players mapped per chunk (default NORMALIZE_CHUNK_SIZE)")
	root.PersistentFlags().BoolVar(&c.progress, "progress", false, "log progress after every chunk")

	root.AddCommand(c.normalizeCmd())
	root.AddCommand(c.inspectCmd())
	root.AddCommand(c.classifyCmd())
	root.AddCommand(c.importCmd())
	root.AddCommand(c.qualityCmd())
	root.AddCommand(c.playerCmd())
	root.AddCommand(c.clubCmd())
	root.AddCommand(c.shapeCmd())
	root.AddCommand(c.watchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(logger)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	c.shutdown = append(c.shutdown, shutdownTracing, func(context.Context) error { return stopProfiling() })

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown(cmd *cobra.Command, _ []string) {
	if c.app != nil {
		c.app.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, fn := range c.shutdown {
		if err := fn(ctx); err != nil {
			logging.Default().Warn("shutdown hook failed", "error", err)
		}
	}
	_ = logging.Default().Sync()
}

// load fetches, normalizes and publishes the configured documents.
func (c *cli) load(ctx context.Context) error {
	req, err := c.loadRequest(ctx)
	if err != nil {
		return err
	}
	_, err = c.app.Loader.Load(ctx, req)
	return err
}

func (c *cli) loadRequest(ctx context.Context) (usecase.LoadRequest, error) {
	req, err := c.app.LoadRequest(c.playersLocation, c.teamsLocation)
	if err != nil {
		return usecase.LoadRequest{}, err
	}
	if c.chunkSize > 0 {
		req.Chunk.ChunkSize = c.chunkSize
	}
	if c.progress {
		logger := c.app.Logger
		req.Chunk.OnProgress = func(p usecase.Progress) {
			logger.InfoContext(ctx, "normalization progress", "processed", p.Processed, "total", p.Total)
		}
	}
	return req, nil
}

func (c *cli) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Print the normalized bundle as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			bundle, _, err := c.app.Repository.Current(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bundle)
		},
	}
}

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document>",
		Short: "Report where the players array and standings live in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"document": doc.Name,
				"players":  schema.InspectPlayers(doc.Root),
				"teams":    schema.InspectTeams(doc.Root),
			})
		},
	}
}

func (c *cli) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <document>...",
		Short: "Classify documents as players, teams or unknown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]map[string]any, 0, len(args))
			for _, location := range args {
				doc, err := readDocument(cmd.Context(), location)
				if err != nil {
					return err
				}
				result := schema.Classify(doc.Root)
				out = append(out, map[string]any{
					"document": doc.Name,
					"kind":     result.Kind,
					"players":  result.Players,
					"teams":    result.Teams,
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <document> <document>...",
		Short: "Pick the players and teams documents among the given files and normalize them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]domainsource.Document, 0, len(args))
			for _, location := range args {
				doc, err := readDocument(cmd.Context(), location)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			result, err := c.app.Loader.Import(cmd.Context(), docs)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (c *cli) qualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality",
		Short: "Print the data quality report of the loaded documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			bundle, _, err := c.app.Repository.Current(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"dataQuality": bundle.DataQuality,
				"warnings":    bundle.Meta.Warnings,
			})
		},
	}
}

func (c *cli) playerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <slug>",
		Short: "Print one normalized player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			p, ok, err := c.app.Repository.PlayerBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: player=%s", usecase.ErrNotFound, args[0])
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

func (c *cli) clubCmd() *cobra.Command {
	var availability bool
	cmd := &cobra.Command{
		Use:   "club <slug>",
		Short: "Print one club and its players, or who misses its next fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx); err != nil {
				return err
			}
			if availability {
				out, err := c.app.Availability.NextMatchAvailability(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			record, ok, err := c.app.Repository.ClubBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: club=%s", usecase.ErrNotFound, args[0])
			}
			players, err := c.app.Repository.PlayersByClub(ctx, record.Slug)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"club":    record,
				"players": players,
			})
		},
	}
	cmd.Flags().BoolVar(&availability, "availability", false, "list injured and suspended players for the next fixture")
	return cmd
}

func (c *cli) shapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shape",
		Short: "Print minimal documents the pipeline recognizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), c.app.Loader.ExpectedShape())
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the documents on an interval and log a summary of every bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("%w: interval must be positive", usecase.ErrInvalidInput)
			}
			ctx := cmd.Context()
			req, err := c.loadRequest(ctx)
			if err != nil {
				return err
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				bundle, err := c.app.Loader.Reload(ctx, req)
				switch {
				case ctx.Err() != nil:
					return nil
				case err != nil:
					c.app.Logger.ErrorContext(ctx, "reload failed", "error", err)
				default:
					c.app.Logger.InfoContext(ctx, "bundle reloaded",
						"run_id", bundle.Meta.RunID,
						"players", len(bundle.Players),
						"clubs", len(bundle.Clubs),
						"warnings", len(bundle.Meta.Warnings),
					)
				}

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "time between reloads")
	return cmd
}

func readDocument(ctx context.Context, location string) (domainsource.Document, error) {
	source, err := datasource.Open(location, datasource.HTTPConfig{Name: location})
	if err != nil {
		return domainsource.Document{}, err
	}
	root, err := source.Fetch(ctx)
	if err != nil {
		return domainsource.Document{}, fmt.Errorf("read %s: %w", location, err)
	}
	return domainsource.Document{Name: source.Name(), Root: root}, nil
}
