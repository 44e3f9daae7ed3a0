package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/dataset"
	"github.com/KaramelBytes/nutriscan-cli/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadFlags are the dataset flags shared by analyze and chart.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
	strict     bool
}

func (l *loadFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	fs.StringVar(&l.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&l.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.StringVar(&l.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fs.IntVar(&l.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.IntVar(&l.maxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
	fs.BoolVar(&l.strict, "strict", false, "fail on the first malformed row instead of skipping it")
}

func (l *loadFlags) options(cmd *cobra.Command) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	switch l.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(l.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", l.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(l.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", l.thousands)
	}
	opt.SheetName = l.sheetName
	if l.sheetIndex > 0 {
		opt.SheetIndex = l.sheetIndex
	}
	opt.MaxRows = l.maxRows
	opt.Strict = cfg.StrictLoad
	if cmd.Flags().Changed("strict") {
		opt.Strict = l.strict
	}
	opt.Logger = logger
	return opt, nil
}

// loadDataset resolves the optional file argument and loads it, printing
// one warning per skipped row.
func loadDataset(cmd *cobra.Command, args []string, l *loadFlags) (*dataset.Dataset, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	path, err := utils.ResolveDataset(arg)
	if err != nil {
		return nil, err
	}
	opt, err := l.options(cmd)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
	}
	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, anomaly.ErrNoRecords)
	}
	return ds, nil
}

// analyzerConfig maps the loaded config onto the analyzer.
func analyzerConfig() (anomaly.Config, error) {
	mode, err := anomaly.ParseStdDevMode(cfg.StdDevMode)
	if err != nil {
		return anomaly.Config{}, err
	}
	order, err := anomaly.ParseReportOrder(cfg.ReportOrder)
	if err != nil {
		return anomaly.Config{}, err
	}
	return anomaly.Config{
		Threshold:    cfg.AnomalyThreshold,
		Significance: cfg.SignificancePercent,
		StdDev:       mode,
		Order:        order,
		Logger:       logger,
	}, nil
}
