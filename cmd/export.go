package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/export"
)

var exportSQLite string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cleaned tables for ad-hoc analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportSQLite == "" {
			return fmt.Errorf("--sqlite is required")
		}
		b, err := loadBundle()
		if err != nil {
			return err
		}
		for _, w := range b.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		counts, err := export.SQLite(cmd.Context(), exportSQLite, b, log)
		if err != nil {
			return err
		}
		for _, t := range []string{"cancers", "coverage", "introductions", "france_screening", "france_coverage"} {
			fmt.Printf("✓ %s: %d rows\n", t, counts[t])
		}
		fmt.Printf("✓ Exported to %s\n", exportSQLite)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "SQLite database path")
}
