package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/pkg/buildinfo"
	"github.com/matzehuels/citylink/pkg/cache"
	"github.com/matzehuels/citylink/pkg/pipeline"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "citylink"

	// redisPrefix namespaces citylink keys in a shared Redis.
	redisPrefix = "citylink:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Citylink explores city population growth in linked views",
		Long:         `Citylink loads a dataset of cities with 2023 and 2024 populations and renders a dashboard of four linked views: a world bubble map, a top-N growth bar chart, a population/growth scatter plot and a searchable, paginated table. Highlighting a city in one view highlights it in all of them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+defaultConfigFile+" if present)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys are scoped by build
// version so artifacts rendered by another release are not reused.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks the cache backend: none, Redis when configured, or the
// file cache under cacheDir.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.config.Cache.Redis; url != "" {
		rc, err := cache.NewRedisCache(ctx, url, redisPrefix)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("Using redis cache", "url", url)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/citylink/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the base output path from the output flag and the source.
// If output is empty, it strips the extension and any "#fragment" from a
// file source; database URIs fall back to "dashboard".
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, source string) string {
	if output == "" {
		if strings.Contains(source, "://") {
			return "dashboard"
		}
		path, _, _ := strings.Cut(source, "#")
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	ext := filepath.Ext(output)
	if render.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// =============================================================================
// Dataset Loading
// =============================================================================

// loadDataset reads source through a runner so file datasets hit the cache.
// Duplicate city names are reported as a warning.
func (c *CLI) loadDataset(ctx context.Context, source string, noCache bool) (*record.Store, string, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, "", fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	store, hash, err := runner.Load(ctx, pipeline.Options{Source: source})
	if err != nil {
		return nil, "", err
	}
	prog.done(fmt.Sprintf("Loaded %d cities from %s", store.Len(), source))

	if dups := store.DuplicateCities(); len(dups) > 0 {
		c.Logger.Warn("duplicate city names highlight together", "cities", dups)
	}
	return store, hash, nil
}
