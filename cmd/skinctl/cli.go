package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/templui/pixelskins/internal/db"
	"github.com/templui/pixelskins/internal/moderation"
	"github.com/templui/pixelskins/internal/repository"
	"github.com/templui/pixelskins/internal/service"
)

const defaultConnection = "./data/skins.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

// newCLIApp creates the admin CLI with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "skinctl",
		Usage:   "Administer the card skin gallery",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-driver", Value: "sqlite", EnvVars: []string{"DB_DRIVER"}, Usage: "Database driver: sqlite|pgx"},
			&cli.StringFlag{Name: "db", Value: defaultConnection, EnvVars: []string{"DB_CONNECTION"}, Usage: "Database connection string"},
			&cli.StringFlag{Name: "blocked-terms", EnvVars: []string{"BLOCKED_TERMS"}, Usage: "Comma-separated moderation terms (default list when empty)"},
		},
		Commands: []*cli.Command{
			migrateCmd(),
			listCmd(),
			featureCmd(),
			checkCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withDB(c, false, func(database *sqlx.DB) error {
						err := db.RunMigrations(database.DB, driver(c))
						if err != nil {
							return err
						}
						return printVersion(c, database)
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: func(c *cli.Context) error {
					return withDB(c, false, func(database *sqlx.DB) error {
						err := db.MigrateDown(database.DB, driver(c))
						if err != nil {
							return err
						}
						return printVersion(c, database)
					})
				},
			},
			{
				Name:  "status",
				Usage: "Print the current schema version",
				Action: func(c *cli.Context) error {
					return withDB(c, false, func(database *sqlx.DB) error {
						return printVersion(c, database)
					})
				},
			},
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the featured and regular galleries as JSON",
		Action: func(c *cli.Context) error {
			return withDB(c, true, func(database *sqlx.DB) error {
				gallery, err := service.NewGalleryService(repository.NewSkinRepository(database)).Gallery(c.Context)
				if err != nil {
					return err
				}
				return outputJSON(c, gallery)
			})
		},
	}
}

func featureCmd() *cli.Command {
	return &cli.Command{
		Name:      "feature",
		Usage:     "Toggle the featured flag of a card skin",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("feature requires exactly one card id")
			}
			return withDB(c, true, func(database *sqlx.DB) error {
				skins := service.NewSkinService(repository.NewSkinRepository(database), filter(c))
				state, err := skins.ToggleFeatured(c.Context, c.Args().First())
				if err != nil {
					return err
				}
				return outputJSON(c, state)
			})
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report whether the moderation filter flags some text",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("check requires text")
			}
			text := strings.Join(c.Args().Slice(), " ")
			return outputJSON(c, map[string]any{
				"text":    text,
				"flagged": filter(c).Flagged(text),
			})
		},
	}
}

func driver(c *cli.Context) string {
	return c.String("db-driver")
}

func filter(c *cli.Context) *moderation.Filter {
	var terms []string
	for _, term := range strings.Split(c.String("blocked-terms"), ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return moderation.NewFilter(terms)
}

// withDB connects, optionally migrating first, and closes the connection after fn.
func withDB(c *cli.Context, migrate bool, fn func(*sqlx.DB) error) error {
	open := db.Init
	if migrate {
		open = db.Open
	}

	database, err := open(driver(c), c.String("db"))
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(database)
}

func printVersion(c *cli.Context, database *sqlx.DB) error {
	version, err := db.Version(database.DB, driver(c))
	if err != nil {
		return err
	}
	return outputJSON(c, map[string]any{"version": version})
}

func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
