package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"agrosite/internal/config"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dialect = "postgres"

var (
	migrationsDir string
	downLimit     int
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply the SQL migrations to the AgroX database",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			n, err := migrate.Exec(db, dialect, source(), migrate.Up)
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			logrus.Infof("applied %d migrations", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "roll back the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			n, err := migrate.ExecMax(db, dialect, source(), migrate.Down, downLimit)
			if err != nil {
				return fmt.Errorf("roll back migrations: %w", err)
			}
			logrus.Infof("rolled back %d migrations", n)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show which migrations have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			migrations, err := source().FindMigrations()
			if err != nil {
				return fmt.Errorf("read migrations: %w", err)
			}
			records, err := migrate.GetMigrationRecords(db, dialect)
			if err != nil {
				return fmt.Errorf("read migration records: %w", err)
			}

			applied := make(map[string]string, len(records))
			for _, r := range records {
				applied[r.Id] = r.AppliedAt.Format("2006-01-02 15:04:05")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tAPPLIED")
			for _, m := range migrations {
				at, ok := applied[m.Id]
				if !ok {
					at = "no"
				}
				fmt.Fprintf(w, "%s\t%s\n", m.Id, at)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "directory containing the SQL migrations")
	downCmd.Flags().IntVar(&downLimit, "limit", 1, "number of migrations to roll back")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func source() *migrate.FileMigrationSource {
	return &migrate.FileMigrationSource{Dir: migrationsDir}
}

func withDB(fn func(db *sql.DB) error) error {
	cfg := config.LoadDatabase()

	db, err := sql.Open(dialect, cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(db)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
