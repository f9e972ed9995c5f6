package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/eonix/collab/internal/annotations"
	"github.com/eonix/collab/internal/api"
	"github.com/eonix/collab/internal/config"
	"github.com/eonix/collab/internal/directory"
	"github.com/eonix/collab/internal/ids"
	"github.com/eonix/collab/internal/issues"
)

// ServeCommand returns the CLI command for starting the collab API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the collaboration API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the configured port",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	roster := make([]directory.Member, 0, len(cfg.Directory.Members))
	for _, m := range cfg.Directory.Members {
		roster = append(roster, directory.Member{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Initials: m.Initials,
			Role:     directory.Role(m.Role),
		})
	}
	dir, err := directory.New(roster, cfg.Directory.CurrentUser)
	if err != nil {
		return fmt.Errorf("failed to build directory: %w", err)
	}

	invites := directory.NewInviteService(cfg.Invite.Secret, cfg.Invite.BaseURL)
	if cfg.Invite.TTLHours > 0 {
		invites.InviteDuration = time.Duration(cfg.Invite.TTLHours) * time.Hour
	}

	idSource := ids.NewUUIDSource()
	annotationStore := annotations.NewStore(idSource)

	ctx := context.Background()
	issueStore, err := buildIssueStore(ctx, cfg)
	if err != nil {
		return err
	}
	tracker := issues.NewTracker(issueStore, idSource)

	if cfg.Issues.SeedDemoData {
		empty, err := storeIsEmpty(ctx, issueStore)
		if err != nil {
			return fmt.Errorf("failed to inspect issue store: %w", err)
		}
		if empty {
			if err := tracker.Seed(ctx, issues.DemoSeed(time.Now())); err != nil {
				return fmt.Errorf("failed to seed issues: %w", err)
			}
			log.Info().Msg("seeded demo issues")
		}
	}

	server := api.NewServer(api.Options{
		Port:               resolvePort(c, cfg),
		Directory:          dir,
		Invites:            invites,
		Annotations:        annotationStore,
		Issues:             tracker,
		FlushRatePerMinute: cfg.Webhooks.FlushRatePerMinute,
	})
	return server.Start()
}

func resolvePort(c *cli.Context, cfg *config.Config) int {
	if c.IsSet("port") {
		return c.Int("port")
	}
	return cfg.Server.Port
}

func buildIssueStore(ctx context.Context, cfg *config.Config) (issues.Store, error) {
	if cfg.Issues.PostgresDSN == "" {
		return issues.NewInMemoryStore(), nil
	}
	pool, err := pgxpool.New(ctx, cfg.Issues.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	store := issues.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure issue schema: %w", err)
	}
	log.Info().Msg("using postgres-backed issue store")
	return store, nil
}

func storeIsEmpty(ctx context.Context, store issues.Store) (bool, error) {
	list, err := store.List(ctx)
	if err != nil {
		return false, err
	}
	return len(list) == 0, nil
}
