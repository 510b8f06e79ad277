package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "KPI summary for a market with trends and targets",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, cd, err := countryData()
	if err != nil {
		return err
	}

	summaries, err := forecast.Summarize(cd)
	if err != nil {
		return fmt.Errorf("summarizing %s: %w", cd.ID, err)
	}

	latest, _ := cd.Latest()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s KPIs  %s", cd.ID, cli.FormatPeriod(latest.Period))))
	fmt.Println()

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			cli.FormatMetric(s.Metric, s.Current),
			cli.FormatMetric(s.Metric, s.Previous),
			cli.ColorTrend(cli.FormatChange(s.ChangePercent()), s.Trend == model.TrendUp, s.Trend == model.TrendDown),
			cli.ColorTrend(cli.FormatTrend(s.Trend), s.Trend == model.TrendUp, s.Trend == model.TrendDown),
			cli.FormatMetric(s.Metric, s.Target),
			cli.FormatMetric(s.Metric, s.Forecast),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Current", "Previous", "Change", "Trend", "Target", "Forecast"},
		Rows:    rows,
	}))

	if len(cd.Historical) >= 2 {
		prev := cd.Historical[len(cd.Historical)-2]
		fmt.Printf("\n  Revenue vs %s: %s\n", cli.FormatPeriod(prev.Period), cli.FormatDelta(latest.Revenue, prev.Revenue))
	}
	return nil
}
