package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/chart"
	"github.com/KaramelBytes/nutriscan-cli/internal/export"
	"github.com/KaramelBytes/nutriscan-cli/internal/report"
	"github.com/KaramelBytes/nutriscan-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath   string
	anaFormat       string
	anaChart        bool
	anaScoredOut    string
	anaThreshold    float64
	anaSignificance float64
	anaStdDev       string
	anaOrder        string
	anaColor        bool
	anaLoad         loadFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Flag calorie outliers per category and explain them by nutrient",
	Long: `Scores every food's calories against its category (z-score), keeps the first
anomaly of each category, and compares its nutrients with the category average.
The file defaults to ./dataSet.csv; CSV, TSV and XLSX are supported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("threshold") {
			cfg.AnomalyThreshold = anaThreshold
		}
		if f.Changed("significance") {
			cfg.SignificancePercent = anaSignificance
		}
		if f.Changed("stddev") {
			cfg.StdDevMode = anaStdDev
		}
		if f.Changed("order") {
			cfg.ReportOrder = anaOrder
		}
		if f.Changed("format") {
			cfg.OutputFormat = anaFormat
		}
		if f.Changed("color") {
			cfg.Color = anaColor
		}
		format, err := report.ParseFormat(cfg.OutputFormat)
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
		if err := cfg.Validate(); err != nil {
			return err
		}
		acfg, err := analyzerConfig()
		if err != nil {
			return err
		}

		ds, err := loadDataset(cmd, args, &anaLoad)
		if err != nil {
			return err
		}
		res, err := anomaly.New(acfg).Analyze(ds.Records)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", ds.Name, err)
		}

		if anaScoredOut != "" {
			var buf bytes.Buffer
			if err := export.WriteScoredCSV(&buf, res.Records); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaScoredOut, buf.Bytes()); err != nil {
				return fmt.Errorf("write scored dataset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote scored dataset to %s\n", anaScoredOut)
		}

		// Color only applies when printing to the terminal
		var out io.Writer = cmd.OutOrStdout()
		var file bytes.Buffer
		color := cfg.Color
		if anaOutputPath != "" {
			out = &file
			color = false
		}
		if anaChart && format == report.FormatText {
			if err := chart.Render(out, res.Chart(), chart.Options{Width: cfg.ChartWidth, Color: color}); err != nil {
				return err
			}
		}
		doc := report.Build(res, ds)
		if err := report.Render(out, doc, report.Options{Format: format, Color: color}); err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, file.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	f.StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	f.StringVar(&anaFormat, "format", "text", "report format: text | markdown | yaml | json (overrides config)")
	f.BoolVar(&anaChart, "chart", false, "print the category chart before the text report")
	f.StringVar(&anaScoredOut, "scored-out", "", "write the scored dataset (z-scores and anomaly flags) as CSV")
	f.Float64Var(&anaThreshold, "threshold", anomaly.DefaultThreshold, "|z| a food must exceed to be an anomaly")
	f.Float64Var(&anaSignificance, "significance", anomaly.DefaultSignificance, "|percent difference| at which a nutrient is significant")
	f.StringVar(&anaStdDev, "stddev", string(anomaly.Population), "standard deviation: population | sample")
	f.StringVar(&anaOrder, "order", string(anomaly.OrderMean), "report order: mean | encounter")
	f.BoolVar(&anaColor, "color", false, "colorize terminal output")
	anaLoad.register(f)
}
