package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
	"github.com/KaramelBytes/hpvdash/internal/geo"
	"github.com/KaramelBytes/hpvdash/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataDir       string            `mapstructure:"data_dir" yaml:"data_dir"`
	ListenAddr    string            `mapstructure:"listen_addr" yaml:"listen_addr"`
	SourceBaseURL string            `mapstructure:"source_base_url" yaml:"source_base_url"`
	RegionsURL    string            `mapstructure:"regions_url" yaml:"regions_url"`
	DatasetURLs   map[string]string `mapstructure:"dataset_urls" yaml:"dataset_urls,omitempty"`
	UserAgent     string            `mapstructure:"user_agent" yaml:"user_agent"`
	FetchWorkers  int               `mapstructure:"fetch_workers" yaml:"fetch_workers"`
	WatchData     bool              `mapstructure:"watch_data" yaml:"watch_data"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	InsetDim float64     `mapstructure:"inset_dim" yaml:"inset_dim"`
	Insets   []InsetSpec `mapstructure:"insets" yaml:"insets,omitempty"`

	// Headless browser for the GCO scraper; empty lets rod pick one
	BrowserBin string `mapstructure:"browser_bin" yaml:"browser_bin,omitempty"`
}

// InsetSpec places one region's inset. Region names are kept as list values since
// viper lowercases map keys.
type InsetSpec struct {
	Region string  `mapstructure:"region" yaml:"region"`
	Lon    float64 `mapstructure:"lon" yaml:"lon"`
	Lat    float64 `mapstructure:"lat" yaml:"lat"`
}

// Dir returns ~/.hpvdash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hpvdash"), nil
}

// Save writes the given configuration to the cfgFile path, or to
// ~/.hpvdash/config.yaml when cfgFile is empty. Parent directories are created.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HPVDASH")
	v.AutomaticEnv()

	// AutomaticEnv only reaches keys viper already knows about.
	v.SetDefault("data_dir", "")
	v.SetDefault("browser_bin", "")
	v.SetDefault("listen_addr", ":5000")
	v.SetDefault("source_base_url", catalog.DefaultBaseURL)
	v.SetDefault("regions_url", catalog.DefaultRegionsURL)
	v.SetDefault("user_agent", "")
	v.SetDefault("fetch_workers", 4)
	v.SetDefault("watch_data", false)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("inset_dim", geo.DefaultInsetDim)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	// PORT is what hosting platforms set; it wins over the default address only.
	if p := os.Getenv("PORT"); p != "" && os.Getenv("HPVDASH_LISTEN_ADDR") == "" && !v.InConfig("listen_addr") {
		if _, err := strconv.Atoi(p); err == nil {
			c.ListenAddr = ":" + p
		}
	}
	return &c, nil
}

// Catalog builds the dataset catalog for this configuration.
func (c *Global) Catalog() *catalog.Catalog {
	return catalog.New(c.SourceBaseURL, c.RegionsURL, c.DatasetURLs)
}

// MapInsets returns the default insets with the configured ones applied on top.
// InsetDim, when set, replaces the dimension of every inset.
func (c *Global) MapInsets() (map[string]geo.Inset, error) {
	ins := geo.DefaultInsets()
	if c.InsetDim > 0 {
		for k, in := range ins {
			in.Dim = c.InsetDim
			ins[k] = in
		}
	}
	centers := make(map[string][]float64, len(c.Insets))
	for _, in := range c.Insets {
		if in.Region == "" {
			return nil, fmt.Errorf("inset without region name")
		}
		centers[in.Region] = []float64{in.Lon, in.Lat}
	}
	extra, err := geo.InsetsFromConfig(centers, c.InsetDim)
	if err != nil {
		return nil, err
	}
	for k, in := range extra {
		ins[k] = in
	}
	return ins, nil
}
