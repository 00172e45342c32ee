package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/pipeline"
	"github.com/matzehuels/citylink/pkg/record"
)

// =============================================================================
// Shared Dashboard Flags
// =============================================================================

// dashboardFlags are the dashboard options every data command accepts.
type dashboardFlags struct {
	pageSize int
	topN     int
	rank     string
	palette  string
}

func (f *dashboardFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageSize, "page-size", dashboard.DefaultPageSize, "table rows per page")
	cmd.Flags().IntVarP(&f.topN, "top", "n", dashboard.DefaultTopN, "cities in the ranked bar chart")
	cmd.Flags().StringVar(&f.rank, "rank", dashboard.DefaultRankField.String(), "ranking field (pop2024, pop2023, growth, growthPct)")
	cmd.Flags().StringVar(&f.palette, "palette", "", "continent palette (set2, dark2, ...)")
}

// options merges base (from the config file) with the flags the user set.
func (f *dashboardFlags) options(cmd *cobra.Command, base dashboard.Options) (dashboard.Options, error) {
	opts := base
	if cmd.Flags().Changed("page-size") {
		if f.pageSize < 1 {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "--page-size must be at least 1, got %d", f.pageSize)
		}
		opts.PageSize = f.pageSize
	}
	if cmd.Flags().Changed("top") {
		if f.topN < 1 {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "--top must be at least 1, got %d", f.topN)
		}
		opts.TopN = f.topN
	}
	if cmd.Flags().Changed("rank") {
		field, err := record.ParseField(f.rank)
		if err != nil {
			return opts, err
		}
		opts.RankField = field
	}
	if f.palette != "" {
		opts.Scales.Palette = f.palette
	}
	opts.SetDefaults()
	return opts, opts.Validate()
}

// =============================================================================
// Render Command
// =============================================================================

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output    string
	formats   string
	highlight string
	query     string
	page      int
	title     string
	pngScale  float64
	noCache   bool
	refresh   bool
	dashboard dashboardFlags
}

// renderCommand creates the render command for writing dashboard artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render the dashboard to SVG, HTML, JSON, PNG or PDF",
		Long: `Render loads a city dataset and writes the four linked views as one dashboard.

Sources are CSV or JSON files (cities.json#$.data[*] selects rows with a
JSONPath), SQLite databases (cities.db or sqlite://path/to.db?table=name)
and MongoDB collections (mongodb://host:27017/db/coll).

A highlighted city is drawn in its highlighted state in every view; --query
and --page select the table page that is drawn. Rendered artifacts are cached
by dataset content and options.`,
		Example: `  citylink render cities.csv
  citylink render cities.csv -f svg,html --highlight Lagos
  citylink render cities.json -o out/growth.svg --query san --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: derived from source)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats, comma-separated (svg, html, json, png, pdf)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "city to highlight")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "table search query")
	cmd.Flags().IntVar(&opts.page, "page", 1, "table page (clamped)")
	cmd.Flags().StringVar(&opts.title, "title", "", "dashboard title")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", 0, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached entries and re-render")
	opts.dashboard.register(cmd)

	return cmd
}

// pipelineOptions merges config file defaults and flags into pipeline options.
func (c *CLI) pipelineOptions(cmd *cobra.Command, source string, opts *renderOpts) (pipeline.Options, error) {
	dash, err := opts.dashboard.options(cmd, c.config.Dashboard)
	if err != nil {
		return pipeline.Options{}, err
	}

	p := pipeline.Options{
		Source:    source,
		Formats:   c.config.Render.Formats,
		Highlight: opts.highlight,
		Query:     opts.query,
		Page:      opts.page,
		Title:     c.config.Render.Title,
		PNGScale:  c.config.Render.PNGScale,
		Refresh:   opts.refresh,
		Dashboard: dash,
		Logger:    c.Logger,
	}
	if opts.formats != "" || len(p.Formats) == 0 {
		p.Formats = parseFormats(opts.formats)
	}
	if opts.title != "" {
		p.Title = opts.title
	}
	if opts.pngScale != 0 {
		p.PNGScale = opts.pngScale
	}
	return p, nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, source string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", source)

	popts, err := c.pipelineOptions(cmd, source, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering dashboard...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(opts.output, source)
	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Dashboard rendered")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Rows, len(result.Artifacts), result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Explore interactively", appName+" explore "+source)
	return nil
}

// writeArtifacts writes each artifact to base.<format> in a stable order
// and returns the written paths.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return paths, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
