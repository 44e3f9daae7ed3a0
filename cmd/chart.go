package cmd

import (
	"fmt"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/chart"
	"github.com/spf13/cobra"
)

var (
	chartWidth int
	chartColor bool
	chartLoad  loadFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Plot mean calories per category with each category's anomaly",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width := cfg.ChartWidth
		if cmd.Flags().Changed("width") {
			if chartWidth <= 0 {
				return fmt.Errorf("invalid --width: %d", chartWidth)
			}
			width = chartWidth
		}
		color := cfg.Color
		if cmd.Flags().Changed("color") {
			color = chartColor
		}
		acfg, err := analyzerConfig()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd, args, &chartLoad)
		if err != nil {
			return err
		}
		res, err := anomaly.New(acfg).Analyze(ds.Records)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", ds.Name, err)
		}
		return chart.Render(cmd.OutOrStdout(), res.Chart(), chart.Options{Width: width, Color: color})
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().IntVar(&chartWidth, "width", chart.DefaultWidth, "length of the longest bar (overrides config)")
	chartCmd.Flags().BoolVar(&chartColor, "color", false, "color bars green to red by mean")
	chartLoad.register(chartCmd.Flags())
}
