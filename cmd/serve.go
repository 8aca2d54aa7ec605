package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/hpvdash/internal/server"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and its JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		dir, err := dataDir()
		if err != nil {
			return err
		}
		s, err := server.New(server.Options{Load: loadBundle, Log: log})
		if err != nil {
			return err
		}
		for _, w := range s.Bundle().Warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if serveWatch || c.WatchData {
			go func() {
				if err := s.Watch(ctx, dir, server.DefaultDebounce); err != nil {
					log.Warn("data watch stopped", zap.Error(err))
				}
			}()
		}
		fmt.Printf("✓ Dashboard on http://%s\n", displayAddr(addr))
		return s.ListenAndServe(ctx, addr)
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload datasets when the data directory changes")
}
