package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/citylink/pkg/io"
)

// exportCommand creates the export command that converts a source into a
// normalized JSON or CSV dataset.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export <source>",
		Short: "Write a validated dataset as JSON or CSV",
		Long: `Export loads any supported source, validates every row and writes the
records with canonical column names. The output format follows the
extension of --output (.json or .csv).`,
		Example: `  citylink export "sqlite://cities.db?table=cities" -o cities.json
  citylink export cities.json -o cities.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runExport(ctx, args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .csv)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, source, output string, noCache bool) error {
	store, _, err := c.loadDataset(ctx, source, noCache)
	if err != nil {
		return err
	}
	if err := io.Export(store, output); err != nil {
		return fmt.Errorf("export %s: %w", output, err)
	}

	printSuccess("Exported %d cities", store.Len())
	printFile(output)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}
