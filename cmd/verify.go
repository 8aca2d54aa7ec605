package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/cache"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check cached files against their recorded sha256",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		m, err := cache.Open(dir)
		if err != nil {
			return err
		}
		entries := m.List()
		if len(entries) == 0 {
			fmt.Println("(nothing cached)")
			return nil
		}
		bad := 0
		for _, e := range entries {
			if err := m.Verify(e.Dataset); err != nil {
				bad++
				fmt.Printf("✗ %s: %v\n", e.Dataset, err)
				continue
			}
			fmt.Printf("✓ %s %s (%d bytes, %s)\n", e.Dataset, e.File, e.Size, e.FetchedAt.Format("2006-01-02 15:04"))
		}
		if bad > 0 {
			return fmt.Errorf("%d cached files failed verification; refetch with: hpvdash fetch --force", bad)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
