package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/spf13/cobra"
)

var flagMetric string

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Historical and projected KPIs for a market",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&flagMetric, "metric", "m", "new_users",
		"Metric for the sparkline (new_users, revenue, cpa, ltv, subscription_share)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	metric, err := model.ParseMetric(flagMetric)
	if err != nil {
		return err
	}
	_, cd, err := countryData()
	if err != nil {
		return err
	}

	projected, err := forecast.Project(cd.Historical, flagHorizon, forecastPolicy())
	if err != nil {
		return fmt.Errorf("forecasting %s: %w", cd.ID, err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s FORECAST  +%d months", cd.ID, flagHorizon)))
	fmt.Println()

	row := func(p model.TimeSeriesPoint, kind string) []string {
		return []string{
			cli.FormatPeriod(p.Period),
			kind,
			cli.FormatNumber(p.NewUsers),
			cli.FormatCurrency(p.Revenue),
			"$" + p.CPA.StringFixed(2),
			"$" + p.LTV.StringFixed(2),
			cli.FormatShare(p.SubscriptionShare),
		}
	}

	rows := make([][]string, 0, len(cd.Historical)+len(projected)+1)
	for _, p := range cd.Historical {
		rows = append(rows, row(p, "actual"))
	}
	if len(projected) > 0 {
		rows = append(rows, []string{"---"})
	}
	for _, p := range projected {
		rows = append(rows, row(p.TimeSeriesPoint, "projected"))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Period", "Kind", "New Users", "Revenue", "CPA", "LTV", "Sub Share"},
		Rows:    rows,
	}))

	series := append(append([]model.TimeSeriesPoint{}, cd.Historical...), model.Observed(projected)...)
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value(metric).InexactFloat64()
	}
	fmt.Printf("\n  %s  %s\n", metric, cli.RenderSparkline(values))
	return nil
}
