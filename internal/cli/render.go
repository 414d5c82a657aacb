package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/JonMunkholm/csvtable/internal/textview"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	dir      string
	column   int
	filter   string
	format   string
	parser   string
	maxWidth int
	maxSize  int64
	maxRows  int
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print a CSV file as a table",
		Long: `Load a CSV file, optionally sort and filter it, and print the visible rows.

Sorting compares the chosen column numerically; cells that are not numbers
sort last. Filtering keeps rows where any cell contains the query, ignoring
case. Use "-" to read from standard input.`,
		Example: `  # Print a file as a table
  csvtable render movies.csv

  # Sort by the third column, highest first
  csvtable render movies.csv --column 2 --dir desc

  # Keep rows mentioning "dune" and print them as CSV
  csvtable render movies.csv --filter dune --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Sort direction: asc or desc (no sort when empty)")
	cmd.Flags().IntVar(&opts.column, "column", core.DefaultSortColumn, "Zero-based column to sort by")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "Show only rows containing this text")
	cmd.Flags().StringVarP(&opts.format, "format", "o", textview.FormatTable, "Output format: table, csv or markdown")
	cmd.Flags().StringVar(&opts.parser, "parser", core.ParserNaive, "CSV parser: naive or quoted")
	cmd.Flags().IntVar(&opts.maxWidth, "max-width", 40, "Truncate cells wider than this; 0 disables")
	cmd.Flags().Int64Var(&opts.maxSize, "max-size", 10<<20, "Largest accepted input in bytes; 0 disables")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", core.DefaultMaxRows, "Largest accepted number of data rows; 0 disables")

	return cmd
}

func runRender(cmd *cobra.Command, name string, opts renderOptions) error {
	if opts.column < 0 {
		return fmt.Errorf("%w: %d", core.ErrInvalidColumn, opts.column)
	}

	loader, err := core.NewLoader(opts.parser)
	if err != nil {
		return err
	}

	var dir core.Direction
	if opts.dir != "" {
		if dir, err = core.ParseDirection(opts.dir); err != nil {
			return err
		}
	}

	raw, fileName, err := readInput(cmd.InOrStdin(), name, opts.maxSize)
	if err != nil {
		return err
	}

	c := core.NewController("cli", core.ControllerOptions{
		SortColumn:    opts.column,
		ReapplyFilter: true,
		Loader:        loader,
		MaxRows:       opts.maxRows,
	})

	start := time.Now()
	res, err := c.Load(fileName, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	slog.Debug("file loaded",
		"file", res.FileName,
		"rows", res.Rows,
		"columns", res.Columns,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if dir != "" {
		key := c.Sort(-1, dir)
		slog.Debug("table sorted", "column", key.Column, "direction", key.Direction)
	}
	c.SetFilter(opts.filter)

	return textview.Render(cmd.OutOrStdout(), c.View(), textview.Options{
		Format:       opts.format,
		MaxCellWidth: opts.maxWidth,
	})
}

// readInput reads name, or stdin for "-", as CSV text.
func readInput(stdin io.Reader, name string, limit int64) (string, string, error) {
	if name == "-" {
		raw, err := core.ReadText(stdin, limit)
		return raw, "stdin", err
	}

	f, err := os.Open(name)
	if err != nil {
		return "", "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	raw, err := core.ReadText(f, limit)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", name, err)
	}
	return raw, filepath.Base(name), nil
}
