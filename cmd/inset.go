package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/geo"
	"github.com/KaramelBytes/hpvdash/internal/utils"
)

var (
	insetOut  string
	insetProp string
)

var insetCmd = &cobra.Command{
	Use:   "inset <regions.geojson>",
	Short: "Move overseas regions into insets next to mainland France",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		insets, err := c.MapInsets()
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		fc, err := geo.LoadFeatureCollection(raw)
		if err != nil {
			return err
		}
		moved, err := geo.Reposition(fc, insets, insetProp)
		if err != nil {
			return err
		}
		out, err := geo.MarshalFeatureCollection(fc)
		if err != nil {
			return err
		}
		if insetOut == "" || insetOut == "-" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := utils.SafeWriteFile(insetOut, out); err != nil {
			return err
		}
		fmt.Printf("✓ Repositioned %d regions %v -> %s\n", len(moved), moved, insetOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insetCmd)
	insetCmd.Flags().StringVarP(&insetOut, "output", "o", "", "output GeoJSON path (default stdout)")
	insetCmd.Flags().StringVar(&insetProp, "name-property", geo.DefaultNameProperty, "feature property holding the region name")
}
