package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/citylink/internal/server"
	"github.com/matzehuels/citylink/pkg/dashboard"
)

// defaultConfigFile is read from the working directory when --config is not set.
const defaultConfigFile = "citylink.toml"

// Config is the optional TOML configuration file. Flags override file
// values; zero values fall back to package defaults.
//
//	[dashboard]
//	page_size = 25
//	top_n = 30
//	rank_field = "growthPct"
//
//	[dashboard.scales]
//	palette = "dark2"
//
//	[render]
//	title = "Fastest Growing Cities"
//	formats = ["svg", "html"]
//
//	[server]
//	addr = ":9090"
//	session_ttl = "1h"
//
//	[cache]
//	redis = "redis://localhost:6379/0"
type Config struct {
	Dashboard dashboard.Options `toml:"dashboard"`
	Render    RenderConfig      `toml:"render"`
	Server    server.Config     `toml:"server"`
	Cache     CacheConfig       `toml:"cache"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Title    string   `toml:"title"`
	Formats  []string `toml:"formats"`
	PNGScale float64  `toml:"png_scale"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Redis    string `toml:"redis"`
}

// loadConfig reads path, or defaultConfigFile if path is empty and the file
// exists. A missing default file yields the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return cfg, nil
		}
		path = defaultConfigFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
