package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vegasq/csvfilt/internal/config"
	"github.com/vegasq/csvfilt/internal/logging"
	"github.com/vegasq/csvfilt/output"
	"github.com/vegasq/csvfilt/query"
	"github.com/vegasq/csvfilt/reader"
	"github.com/vegasq/csvfilt/schema"
)

type rootOptions struct {
	configPath string
	format     string
	limit      int
	delimiter  string
	schemaFile string
	workers    int
	maxWidth   int
	csvSafe    bool
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	defaults := config.Defaults()

	rootCmd := &cobra.Command{
		Use:   "csvfilt [flags] <query> <path>",
		Short: "Filter typed CSV and parquet files with a boolean query",
		Long: `Filter rows of a dataset whose header declares column types as name[type].

Supported types are string, int, float and bool. Queries compare columns with
literals or with other columns of the same type:

  price > 100 && !(stock = BP.L)
  (size >= 1000 || executed = false) && bid < price

The path may be a glob pattern (including **) to read several files that share
one schema; rows then gain a trailing _file[string] column.`,
		Example: `  csvfilt 'price > 100' trades.csv
  csvfilt -f jsonl 'executed = true' 'data/**/*.csv.gz'
  csvfilt --schema-file trades.yaml --delimiter ';' 'size < 10' plain.csv`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, o, args[0], args[1])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default $HOME/"+config.FileName+" when present)")
	pf.StringVar(&o.delimiter, "delimiter", defaults.Delimiter, `field delimiter of delimited input (a single character, or "tab")`)
	pf.StringVar(&o.schemaFile, "schema-file", "", "YAML schema for files whose header holds bare column names")
	pf.StringVar(&o.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&o.logFormat, "log-format", defaults.LogFormat, "log format: text or json")

	f := rootCmd.Flags()
	f.StringVarP(&o.format, "format", "f", defaults.Format, "output format: csv, jsonl, json, table")
	f.IntVar(&o.limit, "limit", 0, "limit number of rows written (0 = unlimited)")
	f.IntVar(&o.workers, "workers", defaults.Workers, "number of goroutines evaluating rows")
	f.IntVar(&o.maxWidth, "max-width", defaults.MaxWidth, "truncate table cells to this width (0 = unlimited)")
	f.BoolVar(&o.csvSafe, "csv-safe", false, "escape values that spreadsheets would run as formulas")

	rootCmd.AddCommand(newSchemaCmd(o), newExplainCmd(), newVersionCmd())
	return rootCmd
}

// settings resolves the effective configuration: flags set on the command
// line win over the config file, which wins over built-in defaults.
func (o *rootOptions) settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("delimiter") {
		cfg.Delimiter = o.delimiter
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("max-width") {
		cfg.MaxWidth = o.maxWidth
	}
	if flags.Changed("csv-safe") {
		cfg.CSVSafe = o.csvSafe
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup resolves settings and builds the run logger.
func (o *rootOptions) setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := o.settings(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger = logger.With("run", uuid.NewString())
	return cfg, logger, nil
}

func (o *rootOptions) readerOptions(cfg config.Config, logger *slog.Logger) (reader.Options, error) {
	delim, err := config.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return reader.Options{}, err
	}

	opts := reader.Options{Delimiter: delim, Logger: logger}
	if o.schemaFile != "" {
		s, err := schema.LoadFile(o.schemaFile)
		if err != nil {
			return reader.Options{}, err
		}
		opts.Schema = s
	}
	return opts, nil
}

func runFilter(cmd *cobra.Command, o *rootOptions, queryText, path string) error {
	if o.limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", o.limit)
	}

	cfg, logger, err := o.setup(cmd)
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Format, cmd.OutOrStdout(), output.Options{
		CSVSafe:  cfg.CSVSafe,
		MaxWidth: cfg.MaxWidth,
	})
	if err != nil {
		return err
	}

	expr, err := query.Parse(queryText)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	opts, err := o.readerOptions(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	table, err := reader.ReadMultipleFiles(path, opts)
	if err != nil {
		return err
	}

	pred, err := query.Compile(expr, table.Schema)
	if err != nil {
		return err
	}
	logger.Debug("query compiled", "query", expr.String(), "schema", table.Schema.String())

	rows, err := query.ApplyFilterParallel(cmd.Context(), table.Rows, pred, cfg.Workers)
	if err != nil {
		return err
	}
	matched := len(rows)
	if o.limit > 0 && len(rows) > o.limit {
		rows = rows[:o.limit]
	}

	if err := formatter.Format(table.Schema, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("filter finished",
		"path", path,
		"rows", len(table.Rows),
		"matched", matched,
		"written", len(rows),
		"duration", time.Since(start),
	)
	return nil
}
