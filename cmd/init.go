package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hpvdash/internal/cache"
	cfgpkg "github.com/KaramelBytes/hpvdash/internal/config"
	"github.com/KaramelBytes/hpvdash/internal/utils"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		path := cfgFile
		if path == "" {
			dir, err := cfgpkg.Dir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, "config.yaml")
		}
		// Refuse to overwrite an existing config.
		if utils.FileExists(path) && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := cfgpkg.Save(c, path); err != nil {
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
		if err := m.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Config written: %s\n", path)
		fmt.Printf("✓ Data directory: %s\n", dir)
		fmt.Fprintln(os.Stdout, "Next: hpvdash fetch && hpvdash serve")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
