package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/reader"
	"github.com/KaramelBytes/hpvdash/internal/table"
	"github.com/KaramelBytes/hpvdash/internal/utils"
)

var (
	inspectSampleRows int
	inspectDelimiter  string
	inspectSkipRows   int
	inspectSheet      string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|dataset-id>",
	Short: "Profile a dataset file and print a Markdown summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := reader.Options{SkipRows: inspectSkipRows, Sheet: inspectSheet}
		if inspectDelimiter != "" {
			d, err := parseDelimiter(inspectDelimiter)
			if err != nil {
				return err
			}
			opt.Delimiter = d
		}
		if !utils.FileExists(path) {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			d, ok := c.Catalog().Get(path)
			if !ok {
				return fmt.Errorf("no such file or dataset: %s", path)
			}
			dir, err := dataDir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, d.File)
			if !utils.FileExists(path) {
				return fmt.Errorf("dataset %s is not cached; run fetch %s", d.ID, d.ID)
			}
			if opt.Delimiter == 0 {
				opt.Delimiter = d.Delimiter
			}
			if !cmd.Flags().Changed("skip-rows") {
				opt.SkipRows = d.SkipRows
			}
		}
		t, err := reader.ReadFile(path, opt)
		if err != nil {
			return err
		}
		fmt.Print(table.ProfileOf(filepath.Base(path), t, inspectSampleRows).Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample-rows", 5, "number of sample rows in the summary")
	inspectCmd.Flags().StringVar(&inspectDelimiter, "delimiter", "", "CSV delimiter: ',', ';' or 'tab'")
	inspectCmd.Flags().IntVar(&inspectSkipRows, "skip-rows", 0, "leading lines to skip")
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "XLSX sheet name")
}
