package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/hpvdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set hpvdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		fmt.Printf("data_dir: %s\n", c.DataDir)
		fmt.Printf("listen_addr: %s\n", c.ListenAddr)
		fmt.Printf("source_base_url: %s\n", c.SourceBaseURL)
		fmt.Printf("regions_url: %s\n", c.RegionsURL)
		if c.UserAgent != "" {
			fmt.Printf("user_agent: %s\n", c.UserAgent)
		}
		fmt.Printf("fetch_workers: %d\n", c.FetchWorkers)
		fmt.Printf("watch_data: %t\n", c.WatchData)
		fmt.Printf("http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", c.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", c.RetryBaseDelayMs)
		fmt.Printf("retry_max_delay_ms: %d\n", c.RetryMaxDelayMs)
		fmt.Printf("inset_dim: %.2f\n", c.InsetDim)
		for _, in := range c.Insets {
			fmt.Printf("inset: %s (%.2f, %.2f)\n", in.Region, in.Lon, in.Lat)
		}
		ids := make([]string, 0, len(c.DatasetURLs))
		for id := range c.DatasetURLs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("dataset_url.%s: %s\n", id, c.DatasetURLs[id])
		}
		if c.BrowserBin != "" {
			fmt.Printf("browser_bin: %s\n", c.BrowserBin)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: data_dir, listen_addr, source_base_url, regions_url, user_agent, fetch_workers,
watch_data, http_timeout_sec, retry_max_attempts, retry_base_delay_ms,
retry_max_delay_ms, inset_dim, browser_bin, dataset_url.<dataset-id>,
inset.<region> ("lon,lat").

Values starting with '-' must follow "--" or use the key=value form:
  hpvdash config set -- inset.Martinique -9,46
  hpvdash config set inset.Martinique=-9,46`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value, err := splitKeyValue(args)
		if err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, key, value); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

// splitKeyValue accepts "<key> <value>" or a single "<key>=<value>".
func splitKeyValue(args []string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	k, v, ok := strings.Cut(args[0], "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected <key> <value> or <key>=<value>, got %q", args[0])
	}
	return k, v, nil
}

func setKey(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch {
	case key == "data_dir":
		c.DataDir = val
	case key == "listen_addr":
		c.ListenAddr = val
	case key == "source_base_url":
		c.SourceBaseURL = val
	case key == "regions_url":
		c.RegionsURL = val
	case key == "user_agent":
		c.UserAgent = val
	case key == "browser_bin":
		c.BrowserBin = val
	case key == "fetch_workers":
		c.FetchWorkers, err = positive()
	case key == "http_timeout_sec":
		c.HTTPTimeoutSec, err = positive()
	case key == "retry_max_attempts":
		c.RetryMaxAttempts, err = positive()
	case key == "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = positive()
	case key == "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = positive()
	case key == "watch_data":
		b, perr := strconv.ParseBool(val)
		if perr != nil {
			return fmt.Errorf("invalid bool for watch_data: %w", perr)
		}
		c.WatchData = b
	case key == "inset_dim":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f <= 0 {
			return fmt.Errorf("invalid positive float for inset_dim: %v", val)
		}
		c.InsetDim = f
	case strings.HasPrefix(key, "dataset_url."):
		id := strings.TrimPrefix(key, "dataset_url.")
		if _, ok := c.Catalog().Get(id); !ok {
			return fmt.Errorf("unknown dataset: %s", id)
		}
		if c.DatasetURLs == nil {
			c.DatasetURLs = map[string]string{}
		}
		if val == "" {
			delete(c.DatasetURLs, id)
		} else {
			c.DatasetURLs[id] = val
		}
	case strings.HasPrefix(key, "inset."):
		return setInset(c, strings.TrimPrefix(key, "inset."), val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func setInset(c *cfgpkg.Global, region, val string) error {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return fmt.Errorf("inset %s: want \"lon,lat\", got %q", region, val)
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("inset %s: invalid coordinates %q", region, val)
	}
	spec := cfgpkg.InsetSpec{Region: region, Lon: lon, Lat: lat}
	for i, in := range c.Insets {
		if in.Region == region {
			c.Insets[i] = spec
			return nil
		}
	}
	c.Insets = append(c.Insets, spec)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configSetCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w (values starting with '-' go after \"--\" or use key=value)", err)
	})
}
