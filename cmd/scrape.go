package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/cache"
	"github.com/KaramelBytes/hpvdash/internal/dataset"
	"github.com/KaramelBytes/hpvdash/internal/fetch"
	"github.com/KaramelBytes/hpvdash/internal/reader"
	"github.com/KaramelBytes/hpvdash/internal/table"
)

var (
	scrapePage  string
	scrapeYear  string
	scrapeSheet string
	scrapeTerms []string

	gcoCancer  int
	gcoSex     int
	gcoType    int
	gcoOut     string
	gcoTimeout int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape source pages for datasets that have no stable URL",
}

var scrapeLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the regional coverage workbooks published on the Santé publique France page",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newFetchClient()
		if err != nil {
			return err
		}
		if len(scrapeTerms) > 0 {
			links, err := client.DiscoverLinks(cmd.Context(), scrapePage, fetch.ContainsAll(scrapeTerms...))
			if err != nil {
				return err
			}
			for _, l := range links {
				fmt.Printf("- %s\n  %s\n", l.Text, l.URL)
			}
			if len(links) == 0 {
				fmt.Println("(no links found)")
			}
			return nil
		}
		wbs, err := client.CoverageWorkbooks(cmd.Context(), scrapePage, scrapeYear)
		if err != nil {
			return err
		}
		if len(wbs) == 0 {
			fmt.Println("(no workbooks found)")
			return nil
		}
		for _, wb := range wbs {
			fmt.Printf("- %s: %s\n  %s\n", wb.Sex, wb.Text, wb.URL)
		}
		return nil
	},
}

// workbookDataset maps a workbook population to its catalog dataset.
var workbookDataset = map[string]string{
	"filles":  "france-coverage-girls",
	"garcons": "france-coverage-boys",
}

var scrapeCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Download the regional coverage workbooks and store them cleaned",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		client, err := newFetchClient()
		if err != nil {
			return err
		}
		dir, err := dataDir()
		if err != nil {
			return err
		}
		m, err := cache.Open(dir)
		if err != nil {
			return err
		}
		wbs, err := client.CoverageWorkbooks(cmd.Context(), scrapePage, scrapeYear)
		if err != nil {
			return err
		}
		if len(wbs) == 0 {
			return fmt.Errorf("no %s coverage workbooks found on %s", scrapeYear, scrapePage)
		}
		cat := c.Catalog()
		for _, wb := range wbs {
			d, ok := cat.Get(workbookDataset[wb.Sex])
			if !ok {
				continue
			}
			raw, err := client.Get(cmd.Context(), wb.URL)
			if err != nil {
				return fmt.Errorf("%s: %w", wb.Sex, err)
			}
			grid, err := reader.ReadGrid(bytes.NewReader(raw), scrapeSheet)
			if err != nil {
				return fmt.Errorf("%s: %w", wb.Sex, err)
			}
			t, err := dataset.CleanCoverageSheet(grid)
			if err != nil {
				return fmt.Errorf("%s: %w", wb.Sex, err)
			}
			var buf bytes.Buffer
			if err := t.WriteCSV(&buf, d.Delimiter); err != nil {
				return err
			}
			if _, err := m.Put(d.ID, wb.URL, d.File, buf.Bytes()); err != nil {
				return err
			}
			fmt.Printf("✓ %s: %d regions, %d cohorts -> %s\n", d.ID, t.Len(), len(t.Header)-1, d.File)
		}
		return m.Save()
	},
}

var scrapeGCOCmd = &cobra.Command{
	Use:   "gco",
	Short: "Scrape one IARC Global Cancer Observatory table with a headless browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		q := fetch.GCOQuery{Cancer: gcoCancer, Sex: gcoSex, Type: gcoType}
		s := &fetch.GCOScraper{Bin: c.BrowserBin, Timeout: time.Duration(gcoTimeout) * time.Second, Log: log}
		t, err := s.Scrape(cmd.Context(), q.URL())
		if err != nil {
			return err
		}
		return writeTable(t, gcoOut, ',')
	},
}

// writeTable writes t as CSV to path, or to stdout when path is empty or "-".
func writeTable(t *table.Table, path string, delim rune) error {
	if path == "" || path == "-" {
		return t.WriteCSV(os.Stdout, delim)
	}
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf, delim); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("✓ Wrote %d rows to %s\n", t.Len(), path)
	return nil
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.AddCommand(scrapeLinksCmd, scrapeCoverageCmd, scrapeGCOCmd)
	for _, c := range []*cobra.Command{scrapeLinksCmd, scrapeCoverageCmd} {
		c.Flags().StringVar(&scrapePage, "page", fetch.SPFCoveragePage, "page listing the workbooks")
		c.Flags().StringVar(&scrapeYear, "year", "2023", "publication year in the link text")
	}
	scrapeLinksCmd.Flags().StringSliceVar(&scrapeTerms, "contains", nil, "list every link whose text contains all these terms instead of the workbooks")
	scrapeCoverageCmd.Flags().StringVar(&scrapeSheet, "sheet", "", "sheet name (default first sheet)")

	scrapeGCOCmd.Flags().IntVar(&gcoCancer, "cancer", 23, "GCO cancer id")
	scrapeGCOCmd.Flags().IntVar(&gcoSex, "sex", 0, "GCO sex (0 both, 1 male, 2 female)")
	scrapeGCOCmd.Flags().IntVar(&gcoType, "type", 0, "0 incidence, 1 mortality")
	scrapeGCOCmd.Flags().StringVarP(&gcoOut, "output", "o", "", "output CSV path (default stdout)")
	scrapeGCOCmd.Flags().IntVar(&gcoTimeout, "timeout", 60, "page load timeout in seconds")
}
