package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/cache"
	"github.com/KaramelBytes/hpvdash/internal/catalog"
)

var (
	listKind   string
	listCached bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known datasets and their cache state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
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
		cat := c.Catalog()
		ds := cat.All()
		if listKind != "" {
			ds = cat.ByKind(catalog.Kind(listKind))
			if len(ds) == 0 {
				return fmt.Errorf("unknown kind: %s", listKind)
			}
		}
		shown := 0
		for _, d := range ds {
			cached := m.Has(d.ID)
			if listCached && !cached {
				continue
			}
			mark := "·"
			if cached {
				mark = "✓"
			}
			extra := ""
			if d.Upstream {
				extra = " [upstream]"
			}
			fmt.Printf("%s %-34s %-13s %s%s\n", mark, d.ID, d.Kind, d.Title, extra)
			shown++
		}
		if shown == 0 {
			fmt.Println("(no datasets)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listKind, "kind", "", "only datasets of this kind (cancer, coverage, introductions, screening, coverage-fr, regions)")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "only datasets present in the data directory")
}
