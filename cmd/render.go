package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/chart"
	"github.com/KaramelBytes/hpvdash/internal/utils"
)

var (
	renderOut    string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render <" + strings.Join(chart.PNGNames, "|") + ">",
	Short: "Render a line chart to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !chart.IsNamed(name) {
			return fmt.Errorf("unknown chart %q (use one of %s)", name, strings.Join(chart.PNGNames, ", "))
		}
		b, err := loadBundle()
		if err != nil {
			return err
		}
		fig, ok := chart.Named(b, name)
		if !ok {
			return fmt.Errorf("chart %s needs data that is not cached; run fetch first", name)
		}
		var buf bytes.Buffer
		if err := chart.RenderPNG(&buf, fig, renderWidth, renderHeight); err != nil {
			return err
		}
		out := renderOut
		if out == "" {
			out = name + ".png"
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return err
		}
		fmt.Printf("✓ Rendered %s -> %s\n", fig.Title, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output PNG path (default <name>.png)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 900, "image width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 450, "image height in pixels")
}
