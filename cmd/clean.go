package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/dataset"
	"github.com/KaramelBytes/hpvdash/internal/reader"
)

var (
	cleanSheet     string
	cleanOut       string
	cleanDelimiter string
)

var cleanCoverageCmd = &cobra.Command{
	Use:   "clean-coverage <workbook.xlsx>",
	Short: "Clean a raw regional coverage workbook into a Région x cohort CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delim, err := parseDelimiter(cleanDelimiter)
		if err != nil {
			return err
		}
		grid, err := reader.ReadGridFile(args[0], cleanSheet)
		if err != nil {
			return err
		}
		t, err := dataset.CleanCoverageSheet(grid)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return writeTable(t, cleanOut, delim)
	},
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func init() {
	rootCmd.AddCommand(cleanCoverageCmd)
	cleanCoverageCmd.Flags().StringVar(&cleanSheet, "sheet", "", "sheet name (default first sheet)")
	cleanCoverageCmd.Flags().StringVarP(&cleanOut, "output", "o", "", "output CSV path (default stdout)")
	cleanCoverageCmd.Flags().StringVar(&cleanDelimiter, "delimiter", ";", "output delimiter: ',', ';' or 'tab'")
}
