// cmd/skiffctl/main.go
//
// Skiff – maintenance CLI.
//
// Subcommands
// -----------
//   migrate   create every installed app's tables
//   seed      load records from a YAML fixture
//   exec      run a raw SQL file
//   hashpw    produce a bcrypt hash for conf auth.password_hash
//
// All database-touching commands read the same configuration as cmd/web,
// so a fixture loaded here is immediately visible to the server.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/config"
	"github.com/yanizio/skiff/internal/database"

	// Installed apps, mirroring cmd/web.
	_ "github.com/yanizio/skiff/apps/toppage"
	_ "github.com/yanizio/skiff/apps/information"
	_ "github.com/yanizio/skiff/apps/file"
	_ "github.com/yanizio/skiff/apps/auth"
	_ "github.com/yanizio/skiff/apps/page"
)

func main() {
	root := &cobra.Command{
		Use:           "skiffctl",
		Short:         "Skiff maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd(), execCmd(), hashpwCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "skiffctl:", err)
		os.Exit(1)
	}
}

// openDB connects using the shared configuration.
func openDB() (*sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Open(cfg.Database.Driver, cfg.Database.DSN)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables for every installed app",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			for _, a := range app.All() {
				for _, ddl := range a.Schema() {
					if _, err := db.ExecContext(ctx, ddl); err != nil {
						return fmt.Errorf("app %s: %w", a.Name(), err)
					}
				}
				cmd.Printf("migrated %s\n", a.Name())
			}
			return nil
		},
	}
}

// fixture maps table name → rows of column → value.
type fixture map[string][]map[string]any

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Insert rows from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fx fixture
			if err := yaml.Unmarshal(raw, &fx); err != nil {
				return fmt.Errorf("parse fixture: %w", err)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			for table, rows := range fx {
				for _, row := range rows {
					cols := make([]string, 0, len(row))
					for c := range row {
						cols = append(cols, c)
					}
					sort.Strings(cols)

					args := make([]any, 0, len(cols))
					marks := make([]string, 0, len(cols))
					for _, c := range cols {
						args = append(args, row[c])
						marks = append(marks, "?")
					}

					q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
						table, strings.Join(cols, ", "), strings.Join(marks, ", "))
					if _, err := db.ExecContext(ctx, q, args...); err != nil {
						return fmt.Errorf("table %s: %w", table, err)
					}
				}
				cmd.Printf("seeded %s (%d rows)\n", table, len(rows))
			}
			return nil
		},
	}
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <file.sql>",
		Short: "Run a raw SQL file statement by statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			for _, stmt := range strings.Split(string(raw), ";") {
				stmt = strings.TrimSpace(stmt)
				if stmt == "" {
					continue
				}
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			cmd.Println("done")
			return nil
		},
	}
}

func hashpwCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpw <password>",
		Short: "Print a bcrypt hash for auth.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			cmd.Println(string(h))
			return nil
		},
	}
}
