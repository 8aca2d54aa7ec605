package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/cache"
)

var (
	fetchForce   bool
	fetchWorkers int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [dataset-id|glob ...]",
	Short: "Download datasets into the data directory",
	Long: `Download datasets into the data directory.

Without arguments every mirrored dataset is fetched. Arguments are dataset ids or
glob patterns such as "cancer-*" or "france-*"; upstream datasets are only fetched
when named.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		cat := c.Catalog()
		ds, err := cat.Select(args)
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
		client, err := newFetchClient()
		if err != nil {
			return err
		}
		workers := c.FetchWorkers
		if fetchWorkers > 0 {
			workers = fetchWorkers
		}
		results, err := cache.Sync(cmd.Context(), m, cat, client, ds, cache.SyncOptions{Workers: workers, Force: fetchForce, Log: log})
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			switch {
			case r.Err != nil:
				failed++
				fmt.Printf("⚠ %s: %v\n", r.Dataset, r.Err)
			case r.Skipped:
				fmt.Printf("· %s (cached)\n", r.Dataset)
			default:
				fmt.Printf("✓ %s (%d bytes)\n", r.Dataset, r.Entry.Size)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d datasets failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "refetch datasets already cached")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 0, "concurrent downloads (overrides config)")
}
