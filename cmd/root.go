package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skilltrace",
	Short: "Skill knowledge graphs and mastery tracking",
	Long: "Skilltrace builds skill knowledge graphs from question banks, " +
		"records student attempts, and tracks per-skill mastery with " +
		"retention decay and subtopic/topic rollups.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLTRACE_DB env var)")

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using the --db flag first,
// then SKILLTRACE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by the command's flags.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
